// Package session owns the authenticated state of the bank client.
//
// A single Manager holds the current access token, refresh token, expiry and
// cached user profile. It persists them through a Store, refreshes the token
// before it expires, and serializes reactive refreshes so that any number of
// requests failing with 401 at the same time cause exactly one refresh call.
// Requests stalled on that refresh wait in a RefreshQueue and are released in
// the order they arrived, with the new token or with the refresh failure.
//
// AuthInterceptor plugs the Manager into client.HTTPClient: it attaches the
// bearer token before each call and, on a 401, refreshes once and re-issues
// the call. A refresh that fails logs the user out, clearing both memory and
// the Store, and reports ErrSessionExpired to every waiting request.
//
// Lifecycle
//
//	m := session.NewManager(authAPI, store, session.WithOnLogout(back))
//	_ = m.Restore(ctx)        // pick up a persisted session, if any
//	api := httpClient.WithInterceptors(session.NewAuthInterceptor(m, log).Intercept)
//	...
//	_ = m.Close(ctx)          // stop timers, wait for logout notifications
package session
