package models

// AdminRole is the permission level of a console user.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleStaff      AdminRole = "staff"
)

// Admin is a user of the admin console.
type Admin struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Email    string    `json:"email"`
	Phone    string    `json:"phone,omitempty"`
	Role     AdminRole `json:"role"`
	IsActive bool      `json:"is_active"`
}

func (a Admin) GetID() string { return a.ID }

// AdminPayload is the create/update body for an admin user.
type AdminPayload struct {
	Name     string    `json:"name,omitempty"`
	Email    string    `json:"email,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Password string    `json:"password,omitempty"`
	Role     AdminRole `json:"role,omitempty"`
	IsActive *bool     `json:"is_active,omitempty"`
}

// LoginRequest is the anonymous login body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult is returned by a successful login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Admin       *Admin `json:"admin,omitempty"`
}
