package auth

import "subercraftex/constants"

// Actor is the caller of an operation, resolved from the access token and
// passed explicitly into every service call. The zero value is a guest.
type Actor struct {
	ID    string
	Name  string
	Email string
	Role  string
}

// Guest is the actor for unauthenticated requests.
var Guest = Actor{}

func (a Actor) IsGuest() bool {
	return a.ID == ""
}

func (a Actor) IsAdmin() bool {
	return a.Role == constants.RoleAdmin
}

// IsStaff reports whether the actor may read every booking.
func (a Actor) IsStaff() bool {
	for _, r := range constants.StaffRoles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// Label identifies the actor in audit columns.
func (a Actor) Label() string {
	if a.IsGuest() {
		return "guest"
	}
	return a.ID
}
