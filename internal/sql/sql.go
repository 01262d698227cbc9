// Package sql embeds the database schema.
package sql

import _ "embed"

//go:embed schema.sql
var schema string

// Schema returns the DDL for the recipes table. Every statement is
// idempotent so it can be applied unconditionally.
func Schema() string {
	return schema
}
