/*
Package authsdk provides a client SDK for the hubsite authentication service.

# SDKClient vs Session

The package is organized around two main types:

  - SDKClient: unauthenticated operations (sign-in, refresh, password reset,
    superadmin bootstrap, hub listing, health checks)
  - Session: authenticated operations with automatic token refresh

A typical flow:

	client := authsdk.NewSDKClient("https://auth.example.org")

	session, err := client.Authenticate(ctx, authsdk.SignInRequest{
		Email:    "alice@example.org",
		Password: "correct horse battery",
	})
	if err != nil {
		return err
	}

	me, err := session.CurrentUser(ctx)

Accounts with confirmed TOTP must also send OTPCode. Without it the server
answers 401 "MFA code required".

# Automatic Token Refresh

Session methods call getValidToken, which refreshes the pair 30 seconds
before the access token expires. Refresh rotates both tokens: the previous
refresh token stops working, so a Session must not be copied between
processes that refresh independently.

# Error Handling

Every non-2xx response becomes an *APIError carrying the status code and the
server's user-safe message:

	_, err := client.SignIn(ctx, req)
	if authsdk.IsUnauthorized(err) {
		// wrong credentials, locked or deactivated account, or MFA needed
	}

# Thread Safety

Sessions are safe for concurrent use. Token state is guarded by a read/write
lock and only one goroutine refreshes at a time.
*/
package authsdk
