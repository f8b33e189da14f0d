/*
Package postgres manages the database connection. As part of the connection
process, it ensures all migrations have been run on the proper database. When
the database is a target for testing, the public schema is dropped first so
each run starts clean.

The *DB wrapper keeps handlers and services away from *gorm.DB directly,
translating driver errors into the app's sentinel errors - notably a unique
constraint violation into ErrExists, which is the authoritative signal for a
taken username or an already-linked provider identity.
*/
package postgres
