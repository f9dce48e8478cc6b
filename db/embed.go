// Package db embeds the POS schema applied at startup.
package db

import _ "embed"

// Schema holds the DDL for the menu, order, inventory, and API key tables,
// plus the change-notification triggers.
//
//go:embed migrations/001_schema.sql
var Schema string
