package model

// Identity is the authenticated caller. It is one of AdminIdentity or
// UserIdentity; the unexported method keeps the set closed.
type Identity interface {
	AccountID() string
	Role() string
	isIdentity()
}

type AdminIdentity struct {
	ID string
}

func (a AdminIdentity) AccountID() string { return a.ID }
func (AdminIdentity) Role() string        { return RoleAdmin }
func (AdminIdentity) isIdentity()         {}

type UserIdentity struct {
	ID string
}

func (u UserIdentity) AccountID() string { return u.ID }
func (UserIdentity) Role() string        { return RoleUser }
func (UserIdentity) isIdentity()         {}

// NewIdentity builds the variant matching role. ok is false for unknown roles.
func NewIdentity(id, role string) (Identity, bool) {
	switch role {
	case RoleAdmin:
		return AdminIdentity{ID: id}, true
	case RoleUser:
		return UserIdentity{ID: id}, true
	default:
		return nil, false
	}
}

func IsAdmin(id Identity) bool {
	_, ok := id.(AdminIdentity)
	return ok
}
