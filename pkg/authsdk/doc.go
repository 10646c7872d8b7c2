/*
Package authsdk is a Go client for the reelgate auth and playback service,
and the home of the JSON types the server writes.

# SDKClient vs Session

SDKClient covers the public endpoints: signup, login, refresh, the
dashboard, stream authorization and health checks. Login returns a Session,
which carries the access/refresh pair and refreshes the access token
before it expires:

	client := authsdk.NewSDKClient("https://api.example.com")

	session, err := client.Login(ctx, "alice@example.com", "DemoPassword123!")
	if err != nil {
		return err
	}

	profile, err := session.Profile(ctx)

	dash, err := client.Dashboard(ctx)
	embed, err := client.Stream(ctx, dash.Videos[0].VideoID, dash.Videos[0].PlaybackToken)

	err = session.RecordWatch(ctx, dash.Videos[0].VideoID)
	err = session.Logout(ctx)

# Errors

Every non-2xx response is returned as an *APIError carrying the HTTP
status, the machine-readable code and, for validation failures, the
per-field messages:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == authsdk.ErrorCodeRateLimited {
		// back off
	}
*/
package authsdk
