package forms

import (
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

var (
	singlePaymentFields = []string{"balance_payment_days"}
	installmentFields   = []string{"total_installments", "monthly_installment_amount"}
)

// SchemeForm is the scheme editor. scheme_type picks one of two payment-term groups;
// values typed into the other group are kept on the form but never submitted.
type SchemeForm struct {
	ID                       string            `json:"-"`
	ProjectID                string            `json:"project_id" validate:"required"`
	Name                     string            `json:"name" validate:"required,max=200"`
	Description              string            `json:"description"`
	SchemeType               models.SchemeType `json:"scheme_type" validate:"required,oneof=single_payment installment"`
	TotalAmount              *float64          `json:"total_amount" validate:"required,gte=0"`
	BookingAmount            *float64          `json:"booking_amount" validate:"omitempty,gte=0"`
	BalancePaymentDays       *int              `json:"balance_payment_days" validate:"required_if=SchemeType single_payment,omitempty,gte=1"`
	TotalInstallments        *int              `json:"total_installments" validate:"required_if=SchemeType installment,omitempty,gte=1"`
	MonthlyInstallmentAmount *float64          `json:"monthly_installment_amount" validate:"required_if=SchemeType installment,omitempty,gt=0"`
	StartDate                *models.Date      `json:"start_date"`
	EndDate                  *models.Date      `json:"end_date"`
	IsActive                 bool              `json:"is_active"`

	originalProjectID string
}

// NewSchemeForm starts a create form.
func NewSchemeForm(projectID string) *SchemeForm {
	return &SchemeForm{ProjectID: projectID, SchemeType: models.SchemeSinglePayment, IsActive: true}
}

// EditSchemeForm pre-fills the form from an existing scheme.
func EditSchemeForm(s models.Scheme) *SchemeForm {
	return &SchemeForm{
		ID:                       s.ID,
		ProjectID:                s.ProjectID,
		Name:                     s.Name,
		Description:              s.Description,
		SchemeType:               s.SchemeType,
		TotalAmount:              ptr(s.TotalAmount),
		BookingAmount:            s.BookingAmount,
		BalancePaymentDays:       s.BalancePaymentDays,
		TotalInstallments:        s.TotalInstallments,
		MonthlyInstallmentAmount: s.MonthlyInstallmentAmount,
		StartDate:                s.StartDate,
		EndDate:                  s.EndDate,
		IsActive:                 s.IsActive,
		originalProjectID:        s.ProjectID,
	}
}

// ActiveFields returns the payment-term fields the current scheme_type shows.
func (f *SchemeForm) ActiveFields() []string {
	switch f.SchemeType {
	case models.SchemeSinglePayment:
		return singlePaymentFields
	case models.SchemeInstallment:
		return installmentFields
	}
	return nil
}

func (f *SchemeForm) normalize() {
	f.ProjectID = strings.TrimSpace(f.ProjectID)
	f.Name = strings.TrimSpace(f.Name)
}

// Submit returns the payload to send, or a validation error keyed by field.
func (f *SchemeForm) Submit() (models.SchemePayload, error) {
	s := *f
	s.normalize()

	switch s.SchemeType {
	case models.SchemeSinglePayment:
		s.TotalInstallments = nil
		s.MonthlyInstallmentAmount = nil
	case models.SchemeInstallment:
		s.BalancePaymentDays = nil
	default:
		s.BalancePaymentDays = nil
		s.TotalInstallments = nil
		s.MonthlyInstallmentAmount = nil
	}

	c := newChecker()
	c.structure(&s)
	if !c.hasMissing() {
		if s.originalProjectID != "" && s.ProjectID != s.originalProjectID {
			c.invalid("project_id", "cannot be changed after creation")
		}
		if s.StartDate != nil && s.EndDate != nil && s.EndDate.Before(*s.StartDate) {
			c.invalid("end_date", "must not be before start_date")
		}
		if s.BookingAmount != nil && s.TotalAmount != nil && *s.BookingAmount > *s.TotalAmount {
			c.invalid("booking_amount", "must not exceed total_amount")
		}
	}
	if err := c.err(); err != nil {
		return models.SchemePayload{}, err
	}

	return models.SchemePayload{
		ProjectID:                s.ProjectID,
		Name:                     s.Name,
		Description:              strings.TrimSpace(s.Description),
		SchemeType:               s.SchemeType,
		TotalAmount:              s.TotalAmount,
		BookingAmount:            s.BookingAmount,
		BalancePaymentDays:       s.BalancePaymentDays,
		TotalInstallments:        s.TotalInstallments,
		MonthlyInstallmentAmount: s.MonthlyInstallmentAmount,
		StartDate:                s.StartDate,
		EndDate:                  s.EndDate,
		IsActive:                 ptr(s.IsActive),
	}, nil
}

// RejectHidden fails when the group scheme_type excludes carries values. Submit drops
// them silently; input read from outside the editor, such as a JSON file, is refused
// instead.
func (f *SchemeForm) RejectHidden() error {
	c := newChecker()
	switch f.SchemeType {
	case models.SchemeSinglePayment:
		if f.TotalInstallments != nil || f.MonthlyInstallmentAmount != nil {
			for _, fld := range installmentFields {
				c.missing(fld, "must be empty for single_payment schemes")
			}
		}
	case models.SchemeInstallment:
		if f.BalancePaymentDays != nil {
			for _, fld := range singlePaymentFields {
				c.missing(fld, "must be empty for installment schemes")
			}
		}
	}
	return c.err()
}
