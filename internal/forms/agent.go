package forms

import (
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// AgentForm is the agent editor. Every identity field is unique server-side; the form
// only checks formats.
type AgentForm struct {
	ID             string   `json:"-"`
	Name           string   `json:"name" validate:"required,max=200"`
	Email          string   `json:"email" validate:"required,email"`
	Phone          string   `json:"phone" validate:"required,phone10"`
	PANNumber      string   `json:"pan_number" validate:"required,pan"`
	AadharNumber   string   `json:"aadhar_number" validate:"required,aadhar"`
	ReraID         string   `json:"rera_id" validate:"required,max=50"`
	AgencyName     string   `json:"agency_name"`
	CommissionRate *float64 `json:"commission_rate" validate:"omitempty,gte=0,lte=100"`
	Address        string   `json:"address"`
	IsActive       bool     `json:"is_active"`
}

func NewAgentForm() *AgentForm { return &AgentForm{IsActive: true} }

// EditAgentForm pre-fills the form from an existing agent.
func EditAgentForm(a models.Agent) *AgentForm {
	return &AgentForm{
		ID:             a.ID,
		Name:           a.Name,
		Email:          a.Email,
		Phone:          a.Phone,
		PANNumber:      a.PANNumber,
		AadharNumber:   a.AadharNumber,
		ReraID:         a.ReraID,
		AgencyName:     a.AgencyName,
		CommissionRate: a.CommissionRate,
		Address:        a.Address,
		IsActive:       a.IsActive,
	}
}

func (f *AgentForm) normalize() {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
	f.Phone = digitsOnly(f.Phone)
	f.PANNumber = strings.ToUpper(strings.TrimSpace(f.PANNumber))
	f.AadharNumber = digitsOnly(f.AadharNumber)
	f.ReraID = strings.TrimSpace(f.ReraID)
}

func (f *AgentForm) Submit() (models.AgentPayload, error) {
	s := *f
	s.normalize()

	c := newChecker()
	c.structure(&s)
	if err := c.err(); err != nil {
		return models.AgentPayload{}, err
	}
	return models.AgentPayload{
		Name:           s.Name,
		Email:          s.Email,
		Phone:          s.Phone,
		PANNumber:      s.PANNumber,
		AadharNumber:   s.AadharNumber,
		ReraID:         s.ReraID,
		AgencyName:     strings.TrimSpace(s.AgencyName),
		CommissionRate: s.CommissionRate,
		Address:        strings.TrimSpace(s.Address),
		IsActive:       ptr(s.IsActive),
	}, nil
}
