package permissions

// Operation classifies what a request wants to do with a resource.
type Operation int

const (
	OpRead Operation = iota
	OpCreate
	OpUpdate
	OpDelete
)

// Owned is implemented by resources that carry an ownership reference.
// The second return value is false when the owner is absent, e.g. a comment
// whose author account was deleted.
type Owned interface {
	OwnerID() (uint64, bool)
}

// Principal is the identity attached to a single request. The zero value is
// the anonymous principal.
type Principal struct {
	ID          uint64
	IsSuperuser bool
	IsStaff     bool

	authenticated bool
}

// Anonymous is the principal of an unauthenticated request.
var Anonymous = Principal{}

// NewPrincipal derives an authenticated principal from a user identity.
func NewPrincipal(id uint64, superuser, staff bool) Principal {
	return Principal{
		ID:            id,
		IsSuperuser:   superuser,
		IsStaff:       staff,
		authenticated: true,
	}
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.authenticated
}

// Authorize decides whether a principal may perform an operation on a
// resource. Reads are always allowed. Writes require the principal to be
// the resource owner or a superuser; a resource without an owner can only
// be mutated by a superuser.
func Authorize(p Principal, resource Owned, op Operation) bool {
	if op == OpRead {
		return true
	}
	if !p.authenticated {
		return false
	}
	if p.IsSuperuser {
		return true
	}
	owner, ok := resource.OwnerID()
	return ok && owner == p.ID
}

// CanCreateUser gates account creation. Only superusers may create users;
// every other principal, authenticated or not, is denied.
func CanCreateUser(p Principal) bool {
	return p.authenticated && p.IsSuperuser
}
