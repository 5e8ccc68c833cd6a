package constants

// Roles carried in the "role" claim of access tokens.
const (
	RoleAdmin    = "admin"
	RoleTailor   = "tailor"
	RoleCustomer = "customer"
)

// StaffRoles may read every booking.
var StaffRoles = []string{RoleAdmin, RoleTailor}

// LocalsActor is the fiber.Ctx Locals key holding the authenticated actor.
const LocalsActor = "actor"
