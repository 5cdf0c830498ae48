package forms

import (
	"fmt"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// AgreementForm is the legal agreement editor. The file itself is not part of the
// form; the lifecycle manager enforces it on create.
type AgreementForm struct {
	ID            string                 `json:"-"`
	UnitID        string                 `json:"unit_id" validate:"required"`
	Title         string                 `json:"title" validate:"required,max=200"`
	AgreementType models.AgreementType   `json:"agreement_type" validate:"required,oneof=sale_agreement allotment_letter construction_agreement lease_deed other"`
	Status        models.AgreementStatus `json:"status" validate:"required,oneof=draft pending_signature signed executed"`
	Signatories   []models.Signatory     `json:"signatories" validate:"omitempty,dive"`
	AgreementDate *models.Date           `json:"agreement_date"`
}

// NewAgreementForm starts a create form for a unit, with two empty signatory rows.
func NewAgreementForm(unitID string) *AgreementForm {
	return &AgreementForm{
		UnitID:        unitID,
		AgreementType: models.AgreementSale,
		Status:        models.AgreementDraft,
		Signatories:   make([]models.Signatory, models.MinSignatories),
	}
}

// EditAgreementForm pre-fills the form from an existing agreement.
func EditAgreementForm(a models.LegalAgreement) *AgreementForm {
	return &AgreementForm{
		ID:            a.ID,
		UnitID:        a.UnitID,
		Title:         a.Title,
		AgreementType: a.AgreementType,
		Status:        a.Status,
		Signatories:   append([]models.Signatory(nil), a.Signatories...),
		AgreementDate: a.AgreementDate,
	}
}

func (f *AgreementForm) Submit() (models.AgreementPayload, error) {
	s := *f
	s.Title = strings.TrimSpace(s.Title)
	s.Signatories = make([]models.Signatory, 0, len(f.Signatories))
	for _, sg := range f.Signatories {
		sg.Name = strings.TrimSpace(sg.Name)
		sg.Role = strings.TrimSpace(sg.Role)
		sg.Email = strings.TrimSpace(sg.Email)
		if sg.Name == "" && sg.Role == "" && sg.Email == "" {
			continue
		}
		s.Signatories = append(s.Signatories, sg)
	}

	c := newChecker()
	if s.ID == "" && len(s.Signatories) < models.MinSignatories {
		c.missing("signatories", fmt.Sprintf("at least %d signatories are required", models.MinSignatories))
	}
	c.structure(&s)
	if err := c.err(); err != nil {
		return models.AgreementPayload{}, err
	}

	return models.AgreementPayload{
		UnitID:        s.UnitID,
		Title:         s.Title,
		AgreementType: s.AgreementType,
		Status:        s.Status,
		Signatories:   s.Signatories,
		AgreementDate: s.AgreementDate,
	}, nil
}
