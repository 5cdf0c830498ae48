package forms

import (
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// contactRules is the value rule per contact_type.
var contactRules = map[models.ContactType]string{
	models.ContactPhone:   "phone10",
	models.ContactEmail:   "email",
	models.ContactAddress: "min=10",
}

// ContactForm edits one company contact entry; contact_type decides how value is
// checked.
type ContactForm struct {
	ID          string             `json:"-"`
	ContactType models.ContactType `json:"contact_type" validate:"required,oneof=phone email address"`
	Value       string             `json:"value" validate:"required"`
	Label       string             `json:"label"`
	IsPrimary   bool               `json:"is_primary"`
}

// EditContactForm pre-fills the form from an existing entry.
func EditContactForm(c models.ContactInfo) *ContactForm {
	return &ContactForm{ID: c.ID, ContactType: c.ContactType, Value: c.Value, Label: c.Label, IsPrimary: c.IsPrimary}
}

func (f *ContactForm) normalize() {
	f.Value = strings.TrimSpace(f.Value)
	if f.ContactType == models.ContactPhone {
		f.Value = digitsOnly(f.Value)
	}
}

func (f *ContactForm) Submit() (models.ContactPayload, error) {
	s := *f
	s.normalize()

	c := newChecker()
	c.structure(&s)
	if !c.hasMissing() {
		if rule, ok := contactRules[s.ContactType]; ok {
			c.value("value", s.Value, rule)
		}
	}
	if err := c.err(); err != nil {
		return models.ContactPayload{}, err
	}
	return models.ContactPayload{
		ContactType: s.ContactType,
		Value:       s.Value,
		Label:       strings.TrimSpace(s.Label),
		IsPrimary:   ptr(s.IsPrimary),
	}, nil
}
