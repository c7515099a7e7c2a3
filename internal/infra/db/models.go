package db

import (
	_ "embed"
	"encoding/json"
	"time"
)

// Schema creates every table the services read or write. Applied by the api
// service when DB_MIGRATE=true and by integration tests.
//
//go:embed schema.sql
var Schema string

type Outbox struct {
	ID        uint64          `db:"id"`
	Event     string          `db:"event"`
	Status    int             `db:"status"`
	Payload   json.RawMessage `db:"payload"`
	CreatedAt time.Time       `db:"created_at"`
}

type Theme struct {
	ID     string          `db:"id"`
	Name   string          `db:"name"`
	Config json.RawMessage `db:"config"`
}

type Block struct {
	ID           string          `db:"id"`
	Type         string          `db:"type"`
	Name         string          `db:"name"`
	DefaultProps json.RawMessage `db:"default_props"`
}
