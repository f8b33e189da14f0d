/*
Package auth holds the credential primitives the app authenticates with.

Local accounts derive PBKDF2 hashes through Passworder. OAuth accounts run
the authorization-code flow through a Provider, one per identity source,
with StateCodec signing the state parameter that ties a callback to the
flow that initiated it.
*/
package auth
