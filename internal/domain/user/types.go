package user

type Role string

const (
	RoleRenter Role = "renter"
	RoleOwner  Role = "owner"
	// RoleAdmin doubles as the system actor for lifecycle transitions
	RoleAdmin Role = "admin"
)

var roleRank = map[Role]int{
	RoleRenter: 1,
	RoleOwner:  2,
	RoleAdmin:  3,
}

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	_, ok := roleRank[r]
	return ok
}

// AtLeast reports whether r ranks at or above min. Unknown roles rank below everything.
func (r Role) AtLeast(min Role) bool {
	have, ok := roleRank[r]
	if !ok {
		return false
	}
	return have >= roleRank[min]
}

func NewRole(s string) (Role, error) {
	role := Role(s)
	if !role.IsValid() {
		return "", ErrInvalidRole
	}
	return role, nil
}
