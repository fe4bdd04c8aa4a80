package metadata

// Column describes one table column: the row key it reads, its header label,
// and an optional fixed width. Slice order defines left-to-right display order.
type Column struct {
	Key    string `json:"key"`
	Header string `json:"header"`
	Width  string `json:"width,omitempty"`
}

// Stat is one labeled counter in a kind's summary.
type Stat struct {
	Label string `json:"label"`
	Value int64  `json:"value"`
}

// StatsSummary aggregates a loaded collection for the management header.
type StatsSummary struct {
	Total int    `json:"total"`
	Stats []Stat `json:"stats"`
}

// Descriptor is the per-kind capability surface. Each kind implements it once;
// callers dispatch through DescriptorFor instead of branching on the kind at
// every call site.
type Descriptor interface {
	Kind() Kind
	Schema() *Schema
	Columns() []Column
	Defaults() map[string]any
	Stats(rows []map[string]any) StatsSummary
}

// DescriptorFor returns the capability descriptor for the given kind.
func DescriptorFor(kind Kind) (Descriptor, error) {
	switch kind {
	case KindUser:
		return userDescriptor{}, nil
	case KindPost:
		return postDescriptor{}, nil
	}
	return nil, ErrUnsupportedKind
}

type userDescriptor struct{}

func (userDescriptor) Kind() Kind      { return KindUser }
func (userDescriptor) Schema() *Schema { return userSchema }

func (userDescriptor) Columns() []Column {
	return []Column{
		{Key: "id", Header: "ID", Width: "60px"},
		{Key: "username", Header: "Username", Width: "150px"},
		{Key: "email", Header: "Email"},
		{Key: "role", Header: "Role", Width: "120px"},
		{Key: "status", Header: "Status", Width: "120px"},
		{Key: "created_at", Header: "Created", Width: "120px"},
		{Key: "last_login", Header: "Last login", Width: "140px"},
	}
}

func (userDescriptor) Defaults() map[string]any { return userSchema.Defaults() }

func (userDescriptor) Stats(rows []map[string]any) StatsSummary {
	return StatsSummary{
		Total: len(rows),
		Stats: []Stat{
			{Label: "Active", Value: countWhere(rows, "status", "active")},
			{Label: "Inactive", Value: countWhere(rows, "status", "inactive")},
			{Label: "Suspended", Value: countWhere(rows, "status", "suspended")},
			{Label: "Admins", Value: countWhere(rows, "role", "admin")},
		},
	}
}

type postDescriptor struct{}

func (postDescriptor) Kind() Kind      { return KindPost }
func (postDescriptor) Schema() *Schema { return postSchema }

func (postDescriptor) Columns() []Column {
	return []Column{
		{Key: "id", Header: "ID", Width: "60px"},
		{Key: "title", Header: "Title"},
		{Key: "author", Header: "Author", Width: "120px"},
		{Key: "category", Header: "Category", Width: "140px"},
		{Key: "status", Header: "Status", Width: "120px"},
		{Key: "views", Header: "Views", Width: "100px"},
		{Key: "created_at", Header: "Created", Width: "120px"},
	}
}

func (postDescriptor) Defaults() map[string]any { return postSchema.Defaults() }

func (postDescriptor) Stats(rows []map[string]any) StatsSummary {
	return StatsSummary{
		Total: len(rows),
		Stats: []Stat{
			{Label: "Published", Value: countWhere(rows, "status", "published")},
			{Label: "Draft", Value: countWhere(rows, "status", "draft")},
			{Label: "Archived", Value: countWhere(rows, "status", "archived")},
			{Label: "Total views", Value: sumInt(rows, "views")},
		},
	}
}

func countWhere(rows []map[string]any, key, value string) int64 {
	var n int64
	for _, row := range rows {
		if s, ok := row[key].(string); ok && s == value {
			n++
		}
	}
	return n
}

func sumInt(rows []map[string]any, key string) int64 {
	var sum int64
	for _, row := range rows {
		switch v := row[key].(type) {
		case int64:
			sum += v
		case int:
			sum += int64(v)
		case float64:
			sum += int64(v)
		}
	}
	return sum
}
