package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"admin-backend/internal/metadata"
)

// Collection exposes CRUD over one entity kind's table. Ids and created_at
// are assigned here, never by callers. Records travel as map[string]any, the
// same shape the engine validates and the table view renders.
type Collection struct {
	store  *Store
	desc   metadata.Descriptor
	schema *metadata.Schema
}

// NewCollection creates a collection for the given kind.
func NewCollection(s *Store, kind metadata.Kind) (*Collection, error) {
	desc, err := metadata.DescriptorFor(kind)
	if err != nil {
		return nil, err
	}
	return &Collection{store: s, desc: desc, schema: desc.Schema()}, nil
}

// Kind returns the entity kind this collection manages.
func (c *Collection) Kind() metadata.Kind { return c.desc.Kind() }

// GetAll returns every record, oldest first.
func (c *Collection) GetAll(ctx context.Context) ([]map[string]any, error) {
	sqlStr := fmt.Sprintf("SELECT %s FROM %s ORDER BY created_at, id",
		strings.Join(c.schema.FieldNames(), ", "), c.schema.Table)
	rows, err := QueryRows(ctx, c.store.DB, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.schema.Table, err)
	}
	return rows, nil
}

// Create inserts a new record. The store assigns id and created_at and fills
// schema defaults for writable fields the payload omits; unknown payload keys
// are ignored.
func (c *Collection) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	id := uuid.NewString()

	pb := c.store.Dialect.NewParamBuilder()
	columns := []string{"id", "created_at"}
	placeholders := []string{pb.Add(id), pb.Add(time.Now().UTC())}

	for _, f := range c.schema.WritableFields() {
		val, ok := payload[f.Name]
		if !ok || val == nil {
			val = f.Default
		}
		if val == nil {
			continue
		}
		columns = append(columns, f.Name)
		placeholders = append(placeholders, pb.Add(val))
	}

	sqlStr := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		c.schema.Table, strings.Join(columns, ", "), strings.Join(placeholders, ", "))
	if _, err := Exec(ctx, c.store.DB, sqlStr, pb.Params()...); err != nil {
		return nil, fmt.Errorf("insert %s: %w", c.schema.Table, c.store.Dialect.MapError(err))
	}

	return c.fetch(ctx, id)
}

// Update applies a patch to an existing record and returns the new state.
// Only writable schema fields are updatable; id and created_at are immutable.
func (c *Collection) Update(ctx context.Context, id string, patch map[string]any) (map[string]any, error) {
	pb := c.store.Dialect.NewParamBuilder()
	var sets []string
	for _, f := range c.schema.WritableFields() {
		val, ok := patch[f.Name]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", f.Name, pb.Add(val)))
	}
	if len(sets) == 0 {
		return c.fetch(ctx, id)
	}

	sqlStr := fmt.Sprintf("UPDATE %s SET %s WHERE id = %s",
		c.schema.Table, strings.Join(sets, ", "), pb.Add(id))
	affected, err := Exec(ctx, c.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("update %s/%s: %w", c.schema.Table, id, c.store.Dialect.MapError(err))
	}
	if affected == 0 {
		return nil, fmt.Errorf("update %s/%s: %w", c.schema.Table, id, ErrNotFound)
	}

	return c.fetch(ctx, id)
}

// Delete removes a record.
func (c *Collection) Delete(ctx context.Context, id string) error {
	pb := c.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("DELETE FROM %s WHERE id = %s", c.schema.Table, pb.Add(id))
	affected, err := Exec(ctx, c.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", c.schema.Table, id, err)
	}
	if affected == 0 {
		return fmt.Errorf("delete %s/%s: %w", c.schema.Table, id, ErrNotFound)
	}
	return nil
}

func (c *Collection) fetch(ctx context.Context, id string) (map[string]any, error) {
	pb := c.store.Dialect.NewParamBuilder()
	sqlStr := fmt.Sprintf("SELECT %s FROM %s WHERE id = %s",
		strings.Join(c.schema.FieldNames(), ", "), c.schema.Table, pb.Add(id))
	row, err := QueryRow(ctx, c.store.DB, sqlStr, pb.Params()...)
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", c.schema.Table, id, err)
	}
	return row, nil
}

// Posts is the post collection plus its status-transition shortcuts, driven
// by the declarative post status machine.
type Posts struct {
	*Collection
}

// NewPosts creates the post collection.
func NewPosts(s *Store) (*Posts, error) {
	coll, err := NewCollection(s, metadata.KindPost)
	if err != nil {
		return nil, err
	}
	return &Posts{Collection: coll}, nil
}

// Publish moves a draft post to published.
func (p *Posts) Publish(ctx context.Context, id string) (map[string]any, error) {
	return p.transition(ctx, id, "publish")
}

// Archive shelves a published post.
func (p *Posts) Archive(ctx context.Context, id string) (map[string]any, error) {
	return p.transition(ctx, id, "archive")
}

// Restore returns an archived post to draft.
func (p *Posts) Restore(ctx context.Context, id string) (map[string]any, error) {
	return p.transition(ctx, id, "restore")
}

func (p *Posts) transition(ctx context.Context, id string, action string) (map[string]any, error) {
	t := metadata.PostStatusMachine.TransitionFor(action)
	if t == nil {
		return nil, fmt.Errorf("unknown status action: %s", action)
	}

	record, err := p.fetch(ctx, id)
	if err != nil {
		return nil, err
	}

	current, _ := record[metadata.PostStatusMachine.Field].(string)
	if !t.Allows(current) {
		return nil, fmt.Errorf("%w: cannot %s a %s post", ErrInvalidTransition, action, current)
	}

	return p.Update(ctx, id, map[string]any{metadata.PostStatusMachine.Field: t.To})
}
