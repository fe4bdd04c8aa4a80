package metadata

import "testing"

func TestPostStatusMachine(t *testing.T) {
	if PostStatusMachine.Initial != "draft" {
		t.Fatalf("expected the lifecycle to start at draft, got %s", PostStatusMachine.Initial)
	}

	cases := []struct {
		action  string
		from    string
		allowed bool
		to      string
	}{
		{"publish", "draft", true, "published"},
		{"publish", "published", false, ""},
		{"publish", "archived", false, ""},
		{"archive", "published", true, "archived"},
		{"archive", "draft", false, ""},
		{"restore", "archived", true, "draft"},
		{"restore", "published", false, ""},
	}

	for _, tc := range cases {
		tr := PostStatusMachine.TransitionFor(tc.action)
		if tr == nil {
			t.Fatalf("no transition defined for %s", tc.action)
		}
		if got := tr.Allows(tc.from); got != tc.allowed {
			t.Errorf("%s from %s: expected allowed=%v, got %v", tc.action, tc.from, tc.allowed, got)
		}
		if tc.allowed && tr.To != tc.to {
			t.Errorf("%s: expected target %s, got %s", tc.action, tc.to, tr.To)
		}
	}
}

func TestTransitionFor_UnknownAction(t *testing.T) {
	if tr := PostStatusMachine.TransitionFor("unpublish"); tr != nil {
		t.Fatalf("expected nil for an undefined action, got %+v", tr)
	}
}
