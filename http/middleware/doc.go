/*
The middleware package defines what a middleware is and the set of middlewares
composing the server's request pipeline.

The available middlewares are:
- CORS
- CurrentUser
- ForceHTTPS
- Idempotent
- InjectIPAddress
- InjectSession
- LogRequest
- RateLimit
- ReportPanic
- RequestID
- RequireAuthed
- RequireUnauthed

Due to the amount of configuration required, middleware does not provide a default middleware chain.
Instead, the following can be copy-pasted:

	vs := middleware.NewVisitors()
	adpts := []middleware.Adapter{
		middleware.RateLimit(vs),
		middleware.ForceHTTPS(env),
		middleware.InjectIPAddress(),
		middleware.RequestID(requestIDKey),
		middleware.LogRequest(log),
		middleware.InjectSession(sessionStore, sessionKey),
		middleware.CurrentUser(responder, userStore, sessionKey, userKey),
	}
*/
package middleware
