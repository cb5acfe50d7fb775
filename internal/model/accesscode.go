package model

// Role determines which operations an access code is allowed to perform.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleProvider  Role = "provider"
	RoleRequester Role = "requester"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleProvider, RoleRequester:
		return true
	}
	return false
}

// CodeStatus is the lifecycle state of an access code. Codes are never
// hard-deleted so that availabilities and bookings keep a valid
// created_by reference; a deactivated code must never authenticate.
type CodeStatus string

const (
	CodeStatusActive      CodeStatus = "active"
	CodeStatusDeactivated CodeStatus = "deactivated"
)

// AccessCode is the credential issued by an admin. The code string is the
// only secret: authentication is an exact match against an active code.
type AccessCode struct {
	Base
	Code     string     `json:"code" db:"code"`
	Role     Role       `json:"role" db:"role"`
	Location string     `json:"location,omitempty" db:"location"`
	Status   CodeStatus `json:"status" db:"status"`
}

func (c *AccessCode) Active() bool {
	return c.Status == CodeStatusActive
}

type CreateAccessCodeRequest struct {
	Code     string `json:"code" binding:"omitempty,min=6,max=32"`
	Role     string `json:"role" binding:"required,oneof=admin provider requester"`
	Location string `json:"location" binding:"max=120"`
}

type UpdateAccessCodeRequest struct {
	Location *string `json:"location" binding:"omitempty,max=120"`
}
