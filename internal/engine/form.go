package engine

import (
	"context"
	"fmt"

	"admin-backend/internal/metadata"
)

// ValidationMode controls when a form session re-validates its values.
type ValidationMode string

const (
	// ValidateOnSubmit validates only when Submit is called.
	ValidateOnSubmit ValidationMode = "on_submit"
	// ValidateOnChange additionally re-validates after every field change.
	ValidateOnChange ValidationMode = "on_change"
)

// ParseValidationMode maps a config string to a mode, defaulting to on_submit.
func ParseValidationMode(s string) ValidationMode {
	if ValidationMode(s) == ValidateOnChange {
		return ValidateOnChange
	}
	return ValidateOnSubmit
}

// FormMode distinguishes authoring a new entity from editing an existing one.
type FormMode string

const (
	FormCreate FormMode = "create"
	FormEdit   FormMode = "edit"
)

// FormSession holds the in-progress create/edit state for one entity
// instance: the current field values, per-field errors, and dirtiness. It is
// created empty for create mode, populated from an existing entity for edit
// mode, and discarded by its owner on close or submit success. A session is
// bound to one entity kind for its whole life; switching kinds means
// discarding the session, so no stale cross-kind state can leak.
type FormSession struct {
	kind  metadata.Kind
	desc  metadata.Descriptor
	store EntityStore

	mode       FormMode
	targetID   string
	values     map[string]any
	errors     ErrorMap
	dirty      map[string]bool
	submitting bool
	validation ValidationMode
}

// NewFormSession creates a session for the given kind backed by the given
// store. The session starts in create mode with empty values; call OpenCreate
// or OpenEdit to initialize it.
func NewFormSession(kind metadata.Kind, store EntityStore, mode ValidationMode) (*FormSession, error) {
	desc, err := metadata.DescriptorFor(kind)
	if err != nil {
		return nil, err
	}
	s := &FormSession{
		kind:       kind,
		desc:       desc,
		store:      store,
		validation: mode,
	}
	s.reset()
	return s, nil
}

func (s *FormSession) reset() {
	s.mode = FormCreate
	s.targetID = ""
	s.values = make(map[string]any)
	s.errors = make(ErrorMap)
	s.dirty = make(map[string]bool)
	s.submitting = false
}

// OpenCreate initializes the session with the kind's schema defaults.
func (s *FormSession) OpenCreate() {
	s.reset()
	for k, v := range s.desc.Defaults() {
		s.values[k] = v
	}
}

// OpenEdit flattens the writable fields of an existing entity into the value
// map and records the target id.
func (s *FormSession) OpenEdit(entity map[string]any) {
	s.reset()
	s.mode = FormEdit
	s.targetID = CellString(entity["id"])
	for _, f := range s.desc.Schema().WritableFields() {
		if v, ok := entity[f.Name]; ok && v != nil {
			s.values[f.Name] = v
		}
	}
}

// SetField updates one field and marks it dirty. In on_change mode the whole
// record is re-validated immediately; in on_submit mode errors only refresh
// on ValidateAll or Submit.
func (s *FormSession) SetField(key string, value any) {
	s.values[key] = value
	s.dirty[key] = true
	if s.validation == ValidateOnChange {
		s.errors = Validate(s.desc.Schema(), s.payload())
	}
}

// Value returns the current value for a field.
func (s *FormSession) Value(key string) any { return s.values[key] }

// Values returns a copy of the current field values.
func (s *FormSession) Values() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// FieldError returns the current error message for a field, or "".
func (s *FormSession) FieldError(key string) string { return s.errors[key] }

// Errors returns the session's current error map.
func (s *FormSession) Errors() ErrorMap { return s.errors }

// IsDirty reports whether the given field has been changed since open.
func (s *FormSession) IsDirty(key string) bool { return s.dirty[key] }

// Dirty reports whether any field has been changed since open.
func (s *FormSession) Dirty() bool { return len(s.dirty) > 0 }

// IsSubmitting reports whether a Submit call is in flight, so the caller can
// disable the triggering action; overlapping submits are not deduplicated here.
func (s *FormSession) IsSubmitting() bool { return s.submitting }

func (s *FormSession) Kind() metadata.Kind { return s.kind }
func (s *FormSession) Mode() FormMode      { return s.mode }
func (s *FormSession) TargetID() string    { return s.targetID }

// payload builds the complete entity payload for validation and submission.
// Create mode fills schema defaults for omitted optional fields.
func (s *FormSession) payload() map[string]any {
	payload := make(map[string]any)
	if s.mode == FormCreate {
		for k, v := range s.desc.Defaults() {
			payload[k] = v
		}
	}
	for k, v := range s.values {
		payload[k] = v
	}
	return payload
}

// ValidateAll validates the full current value map against the active schema,
// caches the result as the session's error map, and returns it.
func (s *FormSession) ValidateAll() ErrorMap {
	s.errors = Validate(s.desc.Schema(), s.payload())
	return s.errors
}

// Submit validates and, when the record is clean, hands the complete payload
// to the Entity Store. A non-empty error map blocks the call — the store is
// never contacted with an invalid record. A store failure is returned as the
// error with all session values intact so the user can retry; the caller is
// responsible for discarding the session after success.
func (s *FormSession) Submit(ctx context.Context) (map[string]any, ErrorMap, error) {
	if errs := s.ValidateAll(); len(errs) > 0 {
		return nil, errs, nil
	}

	if s.mode == FormEdit && s.targetID == "" {
		return nil, nil, fmt.Errorf("edit session has no target id")
	}

	s.submitting = true
	defer func() { s.submitting = false }()

	payload := s.payload()
	if s.mode == FormCreate {
		record, err := s.store.Create(ctx, payload)
		if err != nil {
			return nil, nil, err
		}
		return record, nil, nil
	}

	record, err := s.store.Update(ctx, s.targetID, payload)
	if err != nil {
		return nil, nil, err
	}
	return record, nil, nil
}
