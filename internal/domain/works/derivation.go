package works

import (
	"errors"
	"fmt"
)

var ErrInvalidDerivation = errors.New("invalid artwork derivation")

// Derivation is either Root (a human artwork) or Derived (an ai artwork,
// optionally pointing at the human artwork it came from).
type Derivation interface {
	isDerivation()
}

type Root struct{}

type Derived struct {
	Parent *string
}

func (Root) isDerivation()    {}
func (Derived) isDerivation() {}

// NewDerivation builds the derivation for kind. A human artwork cannot have a parent.
func NewDerivation(kind Kind, parentID *string) (Derivation, error) {
	switch kind {
	case KindHuman:
		if parentID != nil && *parentID != "" {
			return nil, fmt.Errorf("%w: human artworks cannot have a parent", ErrInvalidDerivation)
		}
		return Root{}, nil
	case KindAI:
		if parentID != nil && *parentID == "" {
			parentID = nil
		}
		return Derived{Parent: parentID}, nil
	default:
		return nil, ErrInvalidKind
	}
}

// ParentOf returns the parent id carried by d, if any.
func ParentOf(d Derivation) (string, bool) {
	if dv, ok := d.(Derived); ok && dv.Parent != nil {
		return *dv.Parent, true
	}
	return "", false
}
