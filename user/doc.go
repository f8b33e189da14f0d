// Package user runs the account operations of the app: local
// registration and credential checks, provider-backed find-or-create,
// and secret submission and retrieval.
package user
