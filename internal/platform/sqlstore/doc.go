// Package sqlstore implements the store interfaces on database/sql.
// It works against both supported backends (postgres via pgx, sqlite via
// go-sqlite3) using a portable schema and placeholder style, so the
// fallback local store behaves identically to the primary one.
package sqlstore
