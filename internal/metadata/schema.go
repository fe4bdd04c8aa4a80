package metadata

// Rule is a named business predicate attached to one field of a schema.
// The expression is evaluated against an environment containing the candidate
// record; a true result means the rule is violated. Rules are data, not code
// baked into call sites, so every consumer sees the same behavior.
type Rule struct {
	Field      string `json:"field"`
	Name       string `json:"name"`
	Expression string `json:"expression"`
	Message    string `json:"message"`

	// Compiled holds the compiled expression program (not serialized).
	Compiled any `json:"-"`
}

// Schema is the ordered field/constraint definition for one entity kind.
type Schema struct {
	Kind   Kind    `json:"kind"`
	Table  string  `json:"table"`
	Fields []Field `json:"fields"`
	Rules  []*Rule `json:"rules,omitempty"`
}

// GetField returns a pointer to the field with the given name, or nil.
func (s *Schema) GetField(name string) *Field {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// HasField returns true if the schema has a field with the given name.
func (s *Schema) HasField(name string) bool {
	return s.GetField(name) != nil
}

// FieldNames returns all field names in declaration order.
func (s *Schema) FieldNames() []string {
	names := make([]string, len(s.Fields))
	for i, f := range s.Fields {
		names[i] = f.Name
	}
	return names
}

// WritableFields returns fields that can be set by the client.
// Excludes store-assigned fields (id, created_at, ...).
func (s *Schema) WritableFields() []Field {
	var fields []Field
	for _, f := range s.Fields {
		if f.IsAuto() {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Defaults returns the create-mode default values for writable fields.
func (s *Schema) Defaults() map[string]any {
	defaults := make(map[string]any)
	for _, f := range s.WritableFields() {
		if f.Default != nil {
			defaults[f.Name] = f.Default
		}
	}
	return defaults
}

// SchemaFor returns the field schema for the given entity kind.
// Fails only for kinds this core does not manage.
func SchemaFor(kind Kind) (*Schema, error) {
	switch kind {
	case KindUser:
		return userSchema, nil
	case KindPost:
		return postSchema, nil
	}
	return nil, ErrUnsupportedKind
}

const (
	usernamePattern = `^[a-zA-Z0-9_]+$`
	emailPattern    = `^[^@\s]+@[^@\s]+\.[^@\s]+$`
)

var zero = float64(0)

var userSchema = &Schema{
	Kind:  KindUser,
	Table: "users",
	Fields: []Field{
		{Name: "id", Type: "uuid", Auto: "create"},
		{
			Name: "username", Type: "string", Required: true, Unique: true,
			MinLength: 3, MaxLength: 20, Pattern: usernamePattern,
			Messages: map[string]string{
				"required":   "Username is required",
				"pattern":    "Only letters, numbers and underscores are allowed",
				"min_length": "Username must be at least 3 characters",
				"max_length": "Username must be at most 20 characters",
			},
		},
		{
			Name: "email", Type: "string", Required: true, Pattern: emailPattern,
			Messages: map[string]string{
				"required": "Email is required",
				"pattern":  "Invalid email format",
			},
		},
		{
			Name: "role", Type: "enum", Required: true, Default: "user",
			Enum:     []string{"user", "moderator", "admin"},
			Messages: map[string]string{"required": "Please select a role"},
		},
		{
			Name: "status", Type: "enum", Required: true, Default: "active",
			Enum:     []string{"active", "inactive", "suspended"},
			Messages: map[string]string{"required": "Please select a status"},
		},
		{Name: "created_at", Type: "timestamp", Auto: "create"},
		{Name: "last_login", Type: "timestamp", Nullable: true, Auto: "create"},
	},
	Rules: []*Rule{
		{
			Field:      "username",
			Name:       "reserved_username",
			Expression: `lower(record.username) in ["admin", "root", "system", "administrator"]`,
			Message:    "Reserved username",
		},
		{
			Field:      "email",
			Name:       "company_domain",
			Expression: `!(hasSuffix(record.email, "@company.com") || hasSuffix(record.email, "@example.com"))`,
			Message:    "Only company email addresses (@company.com or @example.com) are allowed",
		},
	},
}

var postSchema = &Schema{
	Kind:  KindPost,
	Table: "posts",
	Fields: []Field{
		{Name: "id", Type: "uuid", Auto: "create"},
		{
			Name: "title", Type: "string", Required: true,
			MinLength: 5, MaxLength: 100,
			Messages: map[string]string{
				"required":   "Title is required",
				"min_length": "Title must be at least 5 characters",
				"max_length": "Title must be at most 100 characters",
			},
		},
		{
			Name: "author", Type: "string", Required: true, MinLength: 1,
			Messages: map[string]string{"required": "Author is required"},
		},
		{
			Name: "category", Type: "enum", Required: true,
			Enum:     []string{"development", "design", "accessibility"},
			Messages: map[string]string{"required": "Please select a category"},
		},
		{
			Name: "content", Type: "string", Required: true, MinLength: 1,
			Messages: map[string]string{"required": "Content is required"},
		},
		{
			Name: "status", Type: "enum", Required: true, Default: "draft",
			Enum:     []string{"draft", "published", "archived"},
			Messages: map[string]string{"required": "Please select a status"},
		},
		{
			Name: "views", Type: "int", Min: &zero, Default: int64(0),
			Messages: map[string]string{"min": "Views cannot be negative"},
		},
		{Name: "created_at", Type: "timestamp", Auto: "create"},
	},
	Rules: []*Rule{
		{
			Field: "title",
			Name:  "banned_words",
			// Substring match, case-sensitive.
			Expression: `indexOf(record.title, "spam") >= 0 || indexOf(record.title, "advert") >= 0 || indexOf(record.title, "promo") >= 0`,
			Message:    "Title contains a banned word",
		},
	},
}
