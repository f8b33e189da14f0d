/*
The router package wraps gorilla/mux with helpers for registering sets of
routes behind shared middleware stacks, notably splitting routes between
those requiring an authenticated user and those requiring the opposite.
*/
package router
