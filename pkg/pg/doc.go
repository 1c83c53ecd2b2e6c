// Package pg wires PostgreSQL into the kit: pool construction with startup
// retries, goose migrations over a pgx pool, and SQLSTATE helpers.
//
// IsDuplicateKeyError matters most here: the token tables carry a unique
// index on the token column, and a 23505 on insert is how a commit-time
// token collision is detected and mapped to the domain error.
package pg
