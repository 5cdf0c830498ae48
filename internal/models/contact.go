package models

// ContactType is the discriminant of a contact entry.
type ContactType string

const (
	ContactPhone   ContactType = "phone"
	ContactEmail   ContactType = "email"
	ContactAddress ContactType = "address"
)

// ContactInfo is a public contact detail of the company. At most one entry per
// type is expected to be primary, though the backend does not enforce it.
type ContactInfo struct {
	ID          string      `json:"id"`
	ContactType ContactType `json:"contact_type"`
	Value       string      `json:"value"`
	Label       string      `json:"label,omitempty"`
	IsPrimary   bool        `json:"is_primary"`
}

func (c ContactInfo) GetID() string { return c.ID }

// ContactPayload is the create/update body for a contact entry.
type ContactPayload struct {
	ContactType ContactType `json:"contact_type,omitempty"`
	Value       string      `json:"value,omitempty"`
	Label       string      `json:"label,omitempty"`
	IsPrimary   *bool       `json:"is_primary,omitempty"`
}

// PrimaryConflicts returns, per contact type, the ids of entries flagged primary when
// more than one is.
func PrimaryConflicts(items []ContactInfo) map[ContactType][]string {
	byType := map[ContactType][]string{}
	for _, c := range items {
		if c.IsPrimary {
			byType[c.ContactType] = append(byType[c.ContactType], c.ID)
		}
	}
	for t, ids := range byType {
		if len(ids) < 2 {
			delete(byType, t)
		}
	}
	return byType
}
