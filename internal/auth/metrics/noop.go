package metrics

// NoopMetrics discards everything.
type NoopMetrics struct{}

var _ Recorder = (*NoopMetrics)(nil)

func NewNoopMetrics() *NoopMetrics { return &NoopMetrics{} }

func (n *NoopMetrics) RecordLogin(string)          {}
func (n *NoopMetrics) RecordTokenIssued(string)    {}
func (n *NoopMetrics) RecordTokenRevoked()         {}
func (n *NoopMetrics) RecordRefresh(bool)          {}
func (n *NoopMetrics) RecordPlaybackDenied(string) {}
func (n *NoopMetrics) RecordWatch(bool)            {}
