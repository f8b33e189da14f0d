/*
The resp package centralizes how the app answers HTTP requests.

A single Responder, configured once at boot with the app's templates,
logger and base URL, exposes three ways of replying: rendering HTML
(layered authed or unauthed layouts with one-shot flashes), writing
JSON, and redirecting. Handlers compose the reply from small functional
options rather than touching http.ResponseWriter directly.
*/
package resp
