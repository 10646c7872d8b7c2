package metrics

// Login results.
const (
	LoginSuccess      = "success"
	LoginInvalid      = "invalid_credentials"
	LoginValidation   = "validation"
	LoginRateLimited  = "rate_limited"
	LoginStorageError = "error"
)

// Recorder records domain events. The services depend on this interface so
// tests and setups without metrics can use NoopMetrics.
type Recorder interface {
	// RecordLogin counts a login by result.
	RecordLogin(result string)

	// RecordTokenIssued counts a signed token by scope.
	RecordTokenIssued(scope string)

	// RecordTokenRevoked counts a logout that added a revocation.
	RecordTokenRevoked()

	// RecordRefresh counts a refresh attempt.
	RecordRefresh(success bool)

	// RecordPlaybackDenied counts a refused stream by internal reason.
	RecordPlaybackDenied(reason string)

	// RecordWatch counts a watch event write.
	RecordWatch(success bool)
}
