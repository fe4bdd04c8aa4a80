package metadata

// Field describes one column of an entity schema: its type, whether it is
// required, and the declarative constraints the validation engine applies.
type Field struct {
	Name      string   `json:"name"`
	Type      string   `json:"type"` // string, enum, int, uuid, timestamp
	Required  bool     `json:"required,omitempty"`
	Unique    bool     `json:"unique,omitempty"`
	Nullable  bool     `json:"nullable,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	MinLength int      `json:"min_length,omitempty"`
	MaxLength int      `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Default   any      `json:"default,omitempty"`
	Auto      string   `json:"auto,omitempty"` // "create": assigned by the store, never by clients

	// Messages overrides the engine's default error text per rule name
	// (required, pattern, min_length, max_length, enum, min).
	Messages map[string]string `json:"messages,omitempty"`
}

// IsAuto returns true if the field is managed by the store.
func (f Field) IsAuto() bool {
	return f.Auto != ""
}

// Message returns the override text for a rule, or "".
func (f Field) Message(rule string) string {
	return f.Messages[rule]
}
