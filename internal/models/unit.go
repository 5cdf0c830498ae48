package models

// PaymentStatus tracks the financial progress of a purchased unit.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentPartial   PaymentStatus = "partial"
	PaymentCompleted PaymentStatus = "completed"
	PaymentOverdue   PaymentStatus = "overdue"
)

// UnitStatus tracks possession progress, independently of PaymentStatus.
type UnitStatus string

const (
	UnitBooked               UnitStatus = "booked"
	UnitAllotted             UnitStatus = "allotted"
	UnitUnderConstruction    UnitStatus = "under_construction"
	UnitReadyForPossession   UnitStatus = "ready_for_possession"
	UnitPossessionHandedOver UnitStatus = "possession_handed_over"
	UnitCancelled            UnitStatus = "cancelled"
)

// JointOwner is a co-owner of a jointly held unit.
type JointOwner struct {
	UserProfileID   string   `json:"user_profile_id" validate:"required"`
	Relation        string   `json:"relation" validate:"required"`
	SharePercentage *float64 `json:"share_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
}

// PurchasedUnit is a unit bought by an investor under a scheme of a project.
// BalanceAmount is computed by the server and is never sent back.
type PurchasedUnit struct {
	ID               string        `json:"id"`
	ProjectID        string        `json:"project_id"`
	SchemeID         string        `json:"scheme_id"`
	UserProfileID    string        `json:"user_profile_id"`
	UnitNumber       string        `json:"unit_number"`
	UnitType         string        `json:"unit_type,omitempty"`
	AreaSqft         *float64      `json:"area_sqft,omitempty"`
	TotalInvestment  float64       `json:"total_investment"`
	UserPaid         float64       `json:"user_paid"`
	BalanceAmount    float64       `json:"balance_amount"`
	PaymentStatus    PaymentStatus `json:"payment_status"`
	UnitStatus       UnitStatus    `json:"unit_status"`
	IsJointOwnership bool          `json:"is_joint_ownership"`
	JointOwners      []JointOwner  `json:"joint_owners"`
	PurchaseDate     *Date         `json:"purchase_date,omitempty"`
}

func (u PurchasedUnit) GetID() string { return u.ID }

// PurchasedUnitPayload is the create/update body for a purchased unit.
type PurchasedUnitPayload struct {
	ProjectID        string        `json:"project_id,omitempty"`
	SchemeID         string        `json:"scheme_id,omitempty"`
	UserProfileID    string        `json:"user_profile_id,omitempty"`
	UnitNumber       string        `json:"unit_number,omitempty"`
	UnitType         string        `json:"unit_type,omitempty"`
	AreaSqft         *float64      `json:"area_sqft,omitempty"`
	TotalInvestment  *float64      `json:"total_investment,omitempty"`
	UserPaid         *float64      `json:"user_paid,omitempty"`
	PaymentStatus    PaymentStatus `json:"payment_status,omitempty"`
	UnitStatus       UnitStatus    `json:"unit_status,omitempty"`
	IsJointOwnership *bool         `json:"is_joint_ownership,omitempty"`
	JointOwners      []JointOwner  `json:"joint_owners,omitempty"`
	PurchaseDate     *Date         `json:"purchase_date,omitempty"`
}
