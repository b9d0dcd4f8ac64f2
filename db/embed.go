// Package db embeds the SQL schema that is applied at startup.
package db

import _ "embed"

// Schema holds the DDL for the catalog and discount rule tables.
//
//go:embed migrations/001_schema.sql
var Schema string
