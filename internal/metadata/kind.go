package metadata

import (
	"errors"
	"fmt"
)

// Kind identifies one of the managed entity shapes. User and Post schemas
// are structurally different and are never unified into one shape.
type Kind string

const (
	KindUser Kind = "user"
	KindPost Kind = "post"
)

// ErrUnsupportedKind signals a schema lookup for a kind this core does not
// manage. It is a programmer error, not a user-facing condition.
var ErrUnsupportedKind = errors.New("unsupported entity kind")

// ParseKind converts an external string into a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindUser, KindPost:
		return Kind(s), nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedKind, s)
}
