package models

// SchemeType is the discriminant of a scheme's payment terms.
type SchemeType string

const (
	SchemeSinglePayment SchemeType = "single_payment"
	SchemeInstallment   SchemeType = "installment"
)

// Scheme is an investment scheme offered inside exactly one project.
// For single_payment schemes only BalancePaymentDays is set; for installment
// schemes only TotalInstallments and MonthlyInstallmentAmount are set.
type Scheme struct {
	ID                       string     `json:"id"`
	ProjectID                string     `json:"project_id"`
	Name                     string     `json:"name"`
	Description              string     `json:"description,omitempty"`
	SchemeType               SchemeType `json:"scheme_type"`
	TotalAmount              float64    `json:"total_amount"`
	BookingAmount            *float64   `json:"booking_amount,omitempty"`
	BalancePaymentDays       *int       `json:"balance_payment_days"`
	TotalInstallments        *int       `json:"total_installments"`
	MonthlyInstallmentAmount *float64   `json:"monthly_installment_amount"`
	StartDate                *Date      `json:"start_date,omitempty"`
	EndDate                  *Date      `json:"end_date,omitempty"`
	IsActive                 bool       `json:"is_active"`
}

func (s Scheme) GetID() string { return s.ID }

// SchemePayload is the create/update body for a scheme. The three payment-term
// fields are always serialized so the inactive group is sent as explicit null.
type SchemePayload struct {
	ProjectID                string     `json:"project_id,omitempty"`
	Name                     string     `json:"name,omitempty"`
	Description              string     `json:"description,omitempty"`
	SchemeType               SchemeType `json:"scheme_type,omitempty"`
	TotalAmount              *float64   `json:"total_amount,omitempty"`
	BookingAmount            *float64   `json:"booking_amount,omitempty"`
	BalancePaymentDays       *int       `json:"balance_payment_days"`
	TotalInstallments        *int       `json:"total_installments"`
	MonthlyInstallmentAmount *float64   `json:"monthly_installment_amount"`
	StartDate                *Date      `json:"start_date,omitempty"`
	EndDate                  *Date      `json:"end_date,omitempty"`
	IsActive                 *bool      `json:"is_active,omitempty"`
}

// SinglePaymentGroupSet reports whether any single_payment-only field is set.
func (p SchemePayload) SinglePaymentGroupSet() bool { return p.BalancePaymentDays != nil }

// InstallmentGroupSet reports whether any installment-only field is set.
func (p SchemePayload) InstallmentGroupSet() bool {
	return p.TotalInstallments != nil || p.MonthlyInstallmentAmount != nil
}
