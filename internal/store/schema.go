package store

import (
	"database/sql"
	"fmt"
)

var tables = []string{
	`CREATE TABLE IF NOT EXISTS patients (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		age INTEGER NOT NULL,
		gender TEXT NOT NULL,
		diagnosis TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		last_test TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS tests (
		id TEXT PRIMARY KEY,
		definition_id TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL,
		kind TEXT NOT NULL,
		status TEXT NOT NULL,
		updated TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		run_id TEXT NOT NULL DEFAULT '',
		patient_id TEXT NOT NULL REFERENCES patients(id),
		patient_name TEXT NOT NULL,
		definition_id TEXT NOT NULL,
		test TEXT NOT NULL,
		date TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		reason TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS reports (
		id TEXT PRIMARY KEY,
		run_id TEXT NOT NULL DEFAULT '',
		patient_id TEXT NOT NULL REFERENCES patients(id),
		patient_name TEXT NOT NULL,
		definition_id TEXT NOT NULL,
		test TEXT NOT NULL,
		date TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		doctor TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		notes TEXT NOT NULL DEFAULT '',
		narrative TEXT NOT NULL DEFAULT '',
		template TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS report_categories (
		report_id TEXT NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		name TEXT NOT NULL,
		score INTEGER NOT NULL,
		max_score INTEGER NOT NULL,
		PRIMARY KEY (report_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		input_tokens INTEGER NOT NULL,
		output_tokens INTEGER NOT NULL,
		latency_ms INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		cost REAL NOT NULL DEFAULT 0,
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
}

func createTables(db *sql.DB) error {
	for _, ddl := range tables {
		if _, err := db.Exec(ddl); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
