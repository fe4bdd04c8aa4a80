package store

import (
	"context"
	"fmt"
	"log"
	"strings"

	"admin-backend/internal/metadata"
)

// Bootstrap creates the collection tables for every managed entity kind.
// The DDL is generated from the same field schemas the validation engine
// consumes, so the store and the engine can never disagree about shape.
func (s *Store) Bootstrap(ctx context.Context) error {
	for _, kind := range []metadata.Kind{metadata.KindUser, metadata.KindPost} {
		schema, err := metadata.SchemaFor(kind)
		if err != nil {
			return err
		}
		ddl := createTableSQL(schema, s.Dialect)
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", schema.Table, err)
		}
	}
	return nil
}

func createTableSQL(schema *metadata.Schema, d Dialect) string {
	cols := make([]string, 0, len(schema.Fields))
	for _, f := range schema.Fields {
		col := fmt.Sprintf("%s %s", f.Name, d.ColumnType(f.Type))
		switch {
		case f.Name == "id":
			col += " PRIMARY KEY"
		case f.Required && !f.Nullable:
			col += " NOT NULL"
		}
		if f.Unique {
			col += " UNIQUE"
		}
		cols = append(cols, col)
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)",
		schema.Table, strings.Join(cols, ",\n    "))
}

// Seed populates empty collections with demo data. Counting first keeps the
// seed idempotent across restarts.
func (s *Store) Seed(ctx context.Context) error {
	for kind, rows := range seedData {
		coll, err := NewCollection(s, kind)
		if err != nil {
			return err
		}

		var count int64
		if err := s.DB.QueryRowContext(ctx,
			fmt.Sprintf("SELECT COUNT(*) FROM %s", coll.schema.Table)).Scan(&count); err != nil {
			return fmt.Errorf("count %s: %w", coll.schema.Table, err)
		}
		if count > 0 {
			continue
		}

		for _, row := range rows {
			if _, err := coll.Create(ctx, row); err != nil {
				return fmt.Errorf("seed %s: %w", kind, err)
			}
		}
		log.Printf("Seeded %d %s rows", len(rows), kind)
	}
	return nil
}

var seedData = map[metadata.Kind][]map[string]any{
	metadata.KindUser: {
		{"username": "jdoe", "email": "jdoe@company.com", "role": "admin", "status": "active"},
		{"username": "asmith", "email": "asmith@company.com", "role": "moderator", "status": "active"},
		{"username": "bwilson", "email": "bwilson@example.com", "role": "user", "status": "active"},
		{"username": "cjones", "email": "cjones@company.com", "role": "user", "status": "inactive"},
		{"username": "dlee", "email": "dlee@example.com", "role": "user", "status": "suspended"},
	},
	metadata.KindPost: {
		{"title": "Getting started with design tokens", "author": "asmith", "category": "design", "content": "Design tokens are the atoms of a design system.", "status": "published", "views": int64(1043)},
		{"title": "Accessible forms in practice", "author": "jdoe", "category": "accessibility", "content": "Labels, descriptions, and error announcements.", "status": "published", "views": int64(872)},
		{"title": "Refactoring legacy tables", "author": "bwilson", "category": "development", "content": "Moving from ad-hoc markup to a shared component.", "status": "draft", "views": int64(0)},
		{"title": "Schema-driven validation", "author": "jdoe", "category": "development", "content": "One schema, every call site.", "status": "published", "views": int64(655)},
		{"title": "Color contrast beyond AA", "author": "asmith", "category": "accessibility", "content": "When AA is not enough.", "status": "draft", "views": int64(12)},
		{"title": "Component API design notes", "author": "cjones", "category": "design", "content": "Props that compose instead of configure.", "status": "archived", "views": int64(2201)},
		{"title": "Pagination pitfalls", "author": "bwilson", "category": "development", "content": "Off-by-one errors and empty last pages.", "status": "published", "views": int64(430)},
		{"title": "Keyboard navigation audit", "author": "dlee", "category": "accessibility", "content": "Tab order is a feature.", "status": "draft", "views": int64(3)},
		{"title": "Design review checklist", "author": "asmith", "category": "design", "content": "What we look for before merge.", "status": "published", "views": int64(311)},
		{"title": "Error messages users can act on", "author": "jdoe", "category": "design", "content": "Say what happened and what to do next.", "status": "archived", "views": int64(1560)},
		{"title": "Sorting mixed-type columns", "author": "bwilson", "category": "development", "content": "Numbers numerically, everything else as text.", "status": "draft", "views": int64(7)},
		{"title": "Status workflows for content", "author": "cjones", "category": "development", "content": "Draft, published, archived, and back again.", "status": "published", "views": int64(98)},
	},
}
