// Package database provides schema creation for the content host tables
package database

import (
	"context"
	"fmt"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/persistence/database"
	"github.com/AtRiskMedia/tractstack-featured/pkg/config"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes.
func (tc *TableCreator) CreateSchema(ctx context.Context, db *database.DB) error {
	tables := sqliteTables
	if db.Driver == config.DriverPostgres {
		tables = postgresTables
	}

	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent registers the built-in post types. Safe to run on every start.
func (tc *TableCreator) SeedInitialContent(ctx context.Context, db *database.DB) error {
	seeds := []struct {
		name, label      string
		public, supports int
	}{
		{"post", "Posts", 1, 1},
		{"page", "Pages", 1, 1},
		{"attachment", "Media", 0, 0},
	}

	for _, s := range seeds {
		_, err := db.ExecContext(ctx,
			`INSERT INTO post_types (name, label, public, supports_thumbnail) VALUES (?, ?, ?, ?)
			 ON CONFLICT (name) DO NOTHING`,
			s.name, s.label, s.public, s.supports)
		if err != nil {
			return fmt.Errorf("failed to seed post type %s: %w", s.name, err)
		}
	}
	return nil
}

var sqliteTables = []string{
	`CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_types (
		name TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		public INTEGER NOT NULL DEFAULT 1,
		supports_thumbnail INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_type TEXT NOT NULL REFERENCES post_types(name),
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		created TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_meta (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		post_id INTEGER NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		meta_key TEXT NOT NULL,
		meta_value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		alt_description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		thumb_url TEXT NOT NULL DEFAULT ''
	)`,
}

var postgresTables = []string{
	`CREATE TABLE IF NOT EXISTS options (
		name TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_types (
		name TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		public INTEGER NOT NULL DEFAULT 1,
		supports_thumbnail INTEGER NOT NULL DEFAULT 1
	)`,
	`CREATE TABLE IF NOT EXISTS posts (
		id BIGSERIAL PRIMARY KEY,
		post_type TEXT NOT NULL REFERENCES post_types(name),
		title TEXT NOT NULL,
		slug TEXT NOT NULL,
		created TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS post_meta (
		id BIGSERIAL PRIMARY KEY,
		post_id BIGINT NOT NULL REFERENCES posts(id) ON DELETE CASCADE,
		meta_key TEXT NOT NULL,
		meta_value TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS files (
		id BIGSERIAL PRIMARY KEY,
		filename TEXT NOT NULL,
		alt_description TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL,
		thumb_url TEXT NOT NULL DEFAULT ''
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_post_meta_post_key ON post_meta(post_id, meta_key)`,
	`CREATE INDEX IF NOT EXISTS idx_posts_type ON posts(post_type)`,
}
