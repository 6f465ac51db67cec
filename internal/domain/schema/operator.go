package schema

import "fmt"

// OperatorKind is the persisted tag of an Operator.
type OperatorKind string

const (
	OperatorNone OperatorKind = "none"
	OperatorUser OperatorKind = "user"
	OperatorRole OperatorKind = "role"
)

// Operator declares who acts on a flow step. It is one of NoOperator,
// UserOperator or RoleOperator.
type Operator interface {
	Kind() OperatorKind
	Ref() string
	isOperator()
}

// NoOperator binds the ticket requester.
type NoOperator struct{}

type UserOperator struct {
	UserID string
}

type RoleOperator struct {
	RoleID string
}

func (NoOperator) Kind() OperatorKind   { return OperatorNone }
func (UserOperator) Kind() OperatorKind { return OperatorUser }
func (RoleOperator) Kind() OperatorKind { return OperatorRole }

func (NoOperator) Ref() string     { return "" }
func (o UserOperator) Ref() string { return o.UserID }
func (o RoleOperator) Ref() string { return o.RoleID }

func (NoOperator) isOperator()   {}
func (UserOperator) isOperator() {}
func (RoleOperator) isOperator() {}

// NewOperator rebuilds an operator from its persisted kind and reference.
func NewOperator(kind OperatorKind, ref string) (Operator, error) {
	switch kind {
	case "", OperatorNone:
		return NoOperator{}, nil
	case OperatorUser:
		if ref == "" {
			return nil, fmt.Errorf("%w: user operator needs a user id", ErrInvalidOperator)
		}
		return UserOperator{UserID: ref}, nil
	case OperatorRole:
		if ref == "" {
			return nil, fmt.Errorf("%w: role operator needs a role id", ErrInvalidOperator)
		}
		return RoleOperator{RoleID: ref}, nil
	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidOperator, kind)
	}
}
