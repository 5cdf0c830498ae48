package forms

import (
	"fmt"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// UnitForm is the purchased-unit editor. Joint owners are only part of the payload
// when is_joint_ownership is set.
type UnitForm struct {
	ID               string               `json:"-"`
	ProjectID        string               `json:"project_id" validate:"required"`
	SchemeID         string               `json:"scheme_id" validate:"required"`
	UserProfileID    string               `json:"user_profile_id" validate:"required"`
	UnitNumber       string               `json:"unit_number" validate:"required,max=50"`
	UnitType         string               `json:"unit_type"`
	AreaSqft         *float64             `json:"area_sqft" validate:"omitempty,gt=0"`
	TotalInvestment  *float64             `json:"total_investment" validate:"required,gte=0"`
	UserPaid         *float64             `json:"user_paid" validate:"omitempty,gte=0"`
	PaymentStatus    models.PaymentStatus `json:"payment_status" validate:"required,oneof=pending partial completed overdue"`
	UnitStatus       models.UnitStatus    `json:"unit_status" validate:"required,oneof=booked allotted under_construction ready_for_possession possession_handed_over cancelled"`
	IsJointOwnership bool                 `json:"is_joint_ownership"`
	JointOwners      []models.JointOwner  `json:"joint_owners" validate:"omitempty,dive"`
	PurchaseDate     *models.Date         `json:"purchase_date"`
}

// NewUnitForm starts a create form.
func NewUnitForm() *UnitForm {
	return &UnitForm{PaymentStatus: models.PaymentPending, UnitStatus: models.UnitBooked}
}

// EditUnitForm pre-fills the form from an existing unit. balance_amount is not part of
// the form; the server derives it.
func EditUnitForm(u models.PurchasedUnit) *UnitForm {
	return &UnitForm{
		ID:               u.ID,
		ProjectID:        u.ProjectID,
		SchemeID:         u.SchemeID,
		UserProfileID:    u.UserProfileID,
		UnitNumber:       u.UnitNumber,
		UnitType:         u.UnitType,
		AreaSqft:         u.AreaSqft,
		TotalInvestment:  ptr(u.TotalInvestment),
		UserPaid:         ptr(u.UserPaid),
		PaymentStatus:    u.PaymentStatus,
		UnitStatus:       u.UnitStatus,
		IsJointOwnership: u.IsJointOwnership,
		JointOwners:      append([]models.JointOwner(nil), u.JointOwners...),
		PurchaseDate:     u.PurchaseDate,
	}
}

// AddJointOwner appends an owner row.
func (f *UnitForm) AddJointOwner(o models.JointOwner) {
	f.JointOwners = append(f.JointOwners, o)
}

// RemoveJointOwner drops the owner row at i.
func (f *UnitForm) RemoveJointOwner(i int) {
	if i < 0 || i >= len(f.JointOwners) {
		return
	}
	f.JointOwners = append(f.JointOwners[:i:i], f.JointOwners[i+1:]...)
}

func (f *UnitForm) Submit() (models.PurchasedUnitPayload, error) {
	s := *f
	s.UnitNumber = strings.TrimSpace(s.UnitNumber)
	if s.IsJointOwnership {
		s.JointOwners = append([]models.JointOwner(nil), f.JointOwners...)
	} else {
		s.JointOwners = nil
	}

	c := newChecker()
	if s.IsJointOwnership && len(s.JointOwners) == 0 {
		c.missing("joint_owners", "add at least one joint owner")
	}
	c.structure(&s)
	if !c.hasMissing() {
		if s.UserPaid != nil && s.TotalInvestment != nil && *s.UserPaid > *s.TotalInvestment {
			c.invalid("user_paid", "must not exceed total_investment")
		}
		var share float64
		seen := map[string]bool{}
		for i, o := range s.JointOwners {
			if o.SharePercentage != nil {
				share += *o.SharePercentage
			}
			if seen[o.UserProfileID] {
				c.invalid(fmt.Sprintf("joint_owners[%d].user_profile_id", i), "is listed twice")
			}
			seen[o.UserProfileID] = true
			if o.UserProfileID == s.UserProfileID {
				c.invalid(fmt.Sprintf("joint_owners[%d].user_profile_id", i), "is already the primary owner")
			}
		}
		if share > 100 {
			c.invalid("joint_owners", "share percentages must not add up to more than 100")
		}
	}
	if err := c.err(); err != nil {
		return models.PurchasedUnitPayload{}, err
	}

	return models.PurchasedUnitPayload{
		ProjectID:        s.ProjectID,
		SchemeID:         s.SchemeID,
		UserProfileID:    s.UserProfileID,
		UnitNumber:       s.UnitNumber,
		UnitType:         strings.TrimSpace(s.UnitType),
		AreaSqft:         s.AreaSqft,
		TotalInvestment:  s.TotalInvestment,
		UserPaid:         ptr(deref(s.UserPaid)),
		PaymentStatus:    s.PaymentStatus,
		UnitStatus:       s.UnitStatus,
		IsJointOwnership: ptr(s.IsJointOwnership),
		JointOwners:      s.JointOwners,
		PurchaseDate:     s.PurchaseDate,
	}, nil
}

// RejectHidden fails when joint owners are given for a unit that is not jointly owned.
func (f *UnitForm) RejectHidden() error {
	if !f.IsJointOwnership && len(f.JointOwners) > 0 {
		c := newChecker()
		c.missing("joint_owners", "must be empty unless is_joint_ownership is true")
		return c.err()
	}
	return nil
}
