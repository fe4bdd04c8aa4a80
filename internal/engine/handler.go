package engine

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"admin-backend/internal/metadata"
	"admin-backend/internal/store"
)

const maxPerPage = 100

// Handler serves the management API over the two backing collections. Each
// request builds its own table view from query parameters, so handlers share
// no mutable state and are safe under Fiber's concurrency.
//
// Handlers return errors (usually *AppError) instead of writing error
// responses themselves; ErrorHandler renders them centrally. Returning a
// non-nil error is load-bearing: a handler that writes the response and
// returns nil lets callers fall through with nil values.
type Handler struct {
	users    EntityStore
	posts    PostStore
	pageSize int
	mode     ValidationMode
}

func NewHandler(users EntityStore, posts PostStore, pageSize int, mode ValidationMode) *Handler {
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	return &Handler{users: users, posts: posts, pageSize: pageSize, mode: mode}
}

// ErrorHandler is the Fiber error handler for the management API: AppErrors
// render with their status and code, everything else is hidden as a 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.Status).JSON(ErrorResponse{Error: appErr})
	}

	log.Printf("ERROR: %v", err)
	return c.Status(code).JSON(ErrorResponse{
		Error: &AppError{
			Code:    "INTERNAL_ERROR",
			Message: "Internal server error",
		},
	})
}

// List handles GET /api/:kind with search/sort/page query parameters flowing
// through the table engine.
func (h *Handler) List(c *fiber.Ctx) error {
	desc, st, err := h.resolveKind(c)
	if err != nil {
		return err
	}

	rows, err := st.GetAll(c.Context())
	if err != nil {
		return storeError(err)
	}

	perPage := h.pageSize
	if pp := c.Query("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
			if perPage > maxPerPage {
				perPage = maxPerPage
			}
		}
	}

	view := NewTableView(rows, desc.Columns(), perPage)
	if term := c.Query("search"); term != "" {
		view.SetSearchTerm(term)
	}
	if sortParam := c.Query("sort"); sortParam != "" {
		field := sortParam
		dir := SortAsc
		if strings.HasPrefix(sortParam, "-") {
			field = sortParam[1:]
			dir = SortDesc
		}
		if !desc.Schema().HasField(field) {
			return NewAppError("UNKNOWN_FIELD", 400, fmt.Sprintf("Unknown sort field: %s", field))
		}
		view.SortBy(field, dir)
	}
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			view.SetPage(v)
		}
	}

	visible := view.VisibleRows()
	if visible == nil {
		visible = []map[string]any{}
	}

	return c.JSON(fiber.Map{
		"data": visible,
		"meta": fiber.Map{
			"page":        view.Page(),
			"per_page":    view.PageSize(),
			"total":       view.FilteredCount(),
			"total_pages": view.TotalPages(),
		},
	})
}

// Stats handles GET /api/:kind/stats.
func (h *Handler) Stats(c *fiber.Ctx) error {
	desc, st, err := h.resolveKind(c)
	if err != nil {
		return err
	}
	rows, err := st.GetAll(c.Context())
	if err != nil {
		return storeError(err)
	}
	return c.JSON(fiber.Map{"data": desc.Stats(rows)})
}

// Create handles POST /api/:kind.
func (h *Handler) Create(c *fiber.Ctx) error {
	desc, st, err := h.resolveKind(c)
	if err != nil {
		return err
	}

	body, appErr := parseBody(c, desc)
	if appErr != nil {
		return appErr
	}

	session, err := NewFormSession(desc.Kind(), st, h.mode)
	if err != nil {
		return err
	}
	session.OpenCreate()
	for k, v := range body {
		session.SetField(k, v)
	}

	record, errs, err := session.Submit(c.Context())
	if len(errs) > 0 {
		return ValidationFailed(errs)
	}
	if err != nil {
		return storeError(err)
	}

	return c.Status(201).JSON(fiber.Map{"data": record})
}

// Update handles PUT /api/:kind/:id with a full entity payload.
func (h *Handler) Update(c *fiber.Ctx) error {
	desc, st, err := h.resolveKind(c)
	if err != nil {
		return err
	}
	id := c.Params("id")

	body, appErr := parseBody(c, desc)
	if appErr != nil {
		return appErr
	}
	body["id"] = id

	session, err := NewFormSession(desc.Kind(), st, h.mode)
	if err != nil {
		return err
	}
	session.OpenEdit(body)

	record, errs, err := session.Submit(c.Context())
	if len(errs) > 0 {
		return ValidationFailed(errs)
	}
	if err != nil {
		return storeError(err)
	}

	return c.JSON(fiber.Map{"data": record})
}

// Delete handles DELETE /api/:kind/:id.
func (h *Handler) Delete(c *fiber.Ctx) error {
	_, st, err := h.resolveKind(c)
	if err != nil {
		return err
	}
	id := c.Params("id")

	if err := st.Delete(c.Context(), id); err != nil {
		return storeError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"id": id}})
}

// Status returns a handler for one post status action
// (POST /api/post/:id/publish|archive|restore).
func (h *Handler) Status(action string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var record map[string]any
		var err error
		switch action {
		case "publish":
			record, err = h.posts.Publish(c.Context(), id)
		case "archive":
			record, err = h.posts.Archive(c.Context(), id)
		case "restore":
			record, err = h.posts.Restore(c.Context(), id)
		default:
			return NewAppError("UNKNOWN_ACTION", 400, fmt.Sprintf("Unknown status action: %s", action))
		}
		if err != nil {
			return storeError(err)
		}
		return c.JSON(fiber.Map{"data": record})
	}
}

func (h *Handler) resolveKind(c *fiber.Ctx) (metadata.Descriptor, EntityStore, error) {
	name := c.Params("kind")
	kind, err := metadata.ParseKind(name)
	if err != nil {
		return nil, nil, UnknownKindError(name)
	}
	desc, err := metadata.DescriptorFor(kind)
	if err != nil {
		return nil, nil, UnknownKindError(name)
	}
	if kind == metadata.KindUser {
		return desc, h.users, nil
	}
	return desc, h.posts, nil
}

// parseBody decodes the JSON body and rejects keys outside the kind's
// writable schema fields.
func parseBody(c *fiber.Ctx, desc metadata.Descriptor) (map[string]any, *AppError) {
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return nil, NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}

	schema := desc.Schema()
	var unknown []ErrorDetail
	for key := range body {
		f := schema.GetField(key)
		if f == nil || f.IsAuto() {
			unknown = append(unknown, ErrorDetail{
				Field:   key,
				Message: fmt.Sprintf("Unknown field: %s", key),
			})
		}
	}
	if len(unknown) > 0 {
		return nil, &AppError{
			Code:    "VALIDATION_FAILED",
			Status:  422,
			Message: "Validation failed",
			Details: unknown,
		}
	}
	return body, nil
}

// storeError maps store failures onto the error taxonomy; anything
// unrecognized surfaces its message verbatim as a store error.
func storeError(err error) *AppError {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return NewAppError("NOT_FOUND", 404, err.Error())
	case errors.Is(err, store.ErrInvalidTransition):
		return TransitionError(err.Error())
	case errors.Is(err, store.ErrUniqueViolation):
		return ConflictError(err.Error())
	}
	return StoreError(err.Error())
}
