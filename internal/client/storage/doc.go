// Package storage bootstraps the client's durable local store: a pure-Go
// SQLite database (modernc.org/sqlite) migrated with embedded goose
// migrations. The store holds the session token, the remembered email and
// the credential-presence flags; nothing else survives a restart.
package storage
