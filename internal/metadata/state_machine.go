package metadata

// Transition represents a single allowed state change for a status field.
type Transition struct {
	Action string   `json:"action"`
	From   []string `json:"from"`
	To     string   `json:"to"`
}

// StateMachine is the declarative status-transition configuration for one
// entity kind. Actions not listed for a kind are undefined.
type StateMachine struct {
	Kind        Kind         `json:"kind"`
	Field       string       `json:"field"`
	Initial     string       `json:"initial"`
	Transitions []Transition `json:"transitions"`
}

// PostStatusMachine defines the post publishing lifecycle:
// publish moves a draft to published, archive shelves a published post,
// restore returns an archived post to draft.
var PostStatusMachine = StateMachine{
	Kind:    KindPost,
	Field:   "status",
	Initial: "draft",
	Transitions: []Transition{
		{Action: "publish", From: []string{"draft"}, To: "published"},
		{Action: "archive", From: []string{"published"}, To: "archived"},
		{Action: "restore", From: []string{"archived"}, To: "draft"},
	},
}

// TransitionFor returns the transition for the given action, or nil.
func (m StateMachine) TransitionFor(action string) *Transition {
	for i := range m.Transitions {
		if m.Transitions[i].Action == action {
			return &m.Transitions[i]
		}
	}
	return nil
}

// Allows reports whether the transition may fire from the given source state.
func (t *Transition) Allows(from string) bool {
	for _, f := range t.From {
		if f == from {
			return true
		}
	}
	return false
}
