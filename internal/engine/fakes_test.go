package engine

import (
	"context"
	"fmt"

	"admin-backend/internal/metadata"
	"admin-backend/internal/store"
)

// fakeStore is an in-memory PostStore with call counters, used to assert
// which store operations a component actually performs.
type fakeStore struct {
	kind metadata.Kind
	rows []map[string]any

	getAllCalls int
	createCalls int
	updateCalls int
	deleteCalls int
	statusCalls int

	getAllErr error
	createErr error
	updateErr error
	deleteErr error
	statusErr error

	nextID int
}

func newFakeStore(kind metadata.Kind, rows ...map[string]any) *fakeStore {
	return &fakeStore{kind: kind, rows: rows}
}

func (f *fakeStore) GetAll(ctx context.Context) ([]map[string]any, error) {
	f.getAllCalls++
	if f.getAllErr != nil {
		return nil, f.getAllErr
	}
	out := make([]map[string]any, len(f.rows))
	for i, row := range f.rows {
		out[i] = copyRow(row)
	}
	return out, nil
}

func (f *fakeStore) Create(ctx context.Context, payload map[string]any) (map[string]any, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	record := copyRow(payload)
	f.nextID++
	record["id"] = fmt.Sprintf("fake-%d", f.nextID)
	f.rows = append(f.rows, record)
	return copyRow(record), nil
}

func (f *fakeStore) Update(ctx context.Context, id string, patch map[string]any) (map[string]any, error) {
	f.updateCalls++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	for _, row := range f.rows {
		if CellString(row["id"]) == id {
			for k, v := range patch {
				if k == "id" {
					continue
				}
				row[k] = v
			}
			return copyRow(row), nil
		}
	}
	return nil, fmt.Errorf("%w: %s %s", store.ErrNotFound, f.kind, id)
}

func (f *fakeStore) Delete(ctx context.Context, id string) error {
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for i, row := range f.rows {
		if CellString(row["id"]) == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s %s", store.ErrNotFound, f.kind, id)
}

func (f *fakeStore) Publish(ctx context.Context, id string) (map[string]any, error) {
	return f.transition(id, "publish")
}

func (f *fakeStore) Archive(ctx context.Context, id string) (map[string]any, error) {
	return f.transition(id, "archive")
}

func (f *fakeStore) Restore(ctx context.Context, id string) (map[string]any, error) {
	return f.transition(id, "restore")
}

func (f *fakeStore) transition(id string, action string) (map[string]any, error) {
	f.statusCalls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	tr := metadata.PostStatusMachine.TransitionFor(action)
	for _, row := range f.rows {
		if CellString(row["id"]) == id {
			current := CellString(row["status"])
			if !tr.Allows(current) {
				return nil, fmt.Errorf("%w: cannot %s a %s post", store.ErrInvalidTransition, action, current)
			}
			row["status"] = tr.To
			return copyRow(row), nil
		}
	}
	return nil, fmt.Errorf("%w: post %s", store.ErrNotFound, id)
}

func copyRow(row map[string]any) map[string]any {
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

func validPostRecord() map[string]any {
	return map[string]any{
		"title":    "Getting Started with Testing",
		"author":   "Jane Doe",
		"category": "development",
		"content":  "A post body long enough to matter.",
		"status":   "draft",
		"views":    int64(0),
	}
}

func validUserRecord() map[string]any {
	return map[string]any{
		"username": "jane_doe",
		"email":    "jane@company.com",
		"role":     "user",
		"status":   "active",
	}
}
