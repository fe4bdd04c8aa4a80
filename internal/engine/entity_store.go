package engine

import "context"

// EntityStore is the external CRUD collaborator for one entity kind. The
// store assigns ids, created_at and kind defaults; this core never invents
// ids. All calls may fail with a message the orchestrator surfaces verbatim.
type EntityStore interface {
	GetAll(ctx context.Context) ([]map[string]any, error)
	Create(ctx context.Context, payload map[string]any) (map[string]any, error)
	Update(ctx context.Context, id string, patch map[string]any) (map[string]any, error)
	Delete(ctx context.Context, id string) error
}

// PostStore extends EntityStore with the post status-transition shortcuts.
// Each fails when the post is not in the expected source status.
type PostStore interface {
	EntityStore
	Publish(ctx context.Context, id string) (map[string]any, error)
	Archive(ctx context.Context, id string) (map[string]any, error)
	Restore(ctx context.Context, id string) (map[string]any, error)
}
