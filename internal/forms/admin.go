package forms

import (
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// AdminForm edits a console user. A password is required when creating and optional
// when editing, where an empty value keeps the current one.
type AdminForm struct {
	ID       string           `json:"-"`
	Name     string           `json:"name" validate:"required,max=200"`
	Email    string           `json:"email" validate:"required,email"`
	Phone    string           `json:"phone" validate:"omitempty,phone10"`
	Password string           `json:"password" validate:"required_without=ID,omitempty,min=8"`
	Role     models.AdminRole `json:"role" validate:"required,oneof=super_admin admin staff"`
	IsActive bool             `json:"is_active"`
}

func NewAdminForm() *AdminForm { return &AdminForm{Role: models.RoleStaff, IsActive: true} }

// EditAdminForm pre-fills the form from an existing admin.
func EditAdminForm(a models.Admin) *AdminForm {
	return &AdminForm{ID: a.ID, Name: a.Name, Email: a.Email, Phone: a.Phone, Role: a.Role, IsActive: a.IsActive}
}

func (f *AdminForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = digitsOnly(f.Phone)
}

func (f *AdminForm) Submit() (models.AdminPayload, error) {
	s := *f
	s.normalize()

	c := newChecker()
	c.structure(&s)
	if err := c.err(); err != nil {
		return models.AdminPayload{}, err
	}
	return models.AdminPayload{
		Name:     s.Name,
		Email:    s.Email,
		Phone:    s.Phone,
		Password: s.Password,
		Role:     s.Role,
		IsActive: ptr(s.IsActive),
	}, nil
}
