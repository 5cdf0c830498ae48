package models

import "time"

// AgreementStatus is the lifecycle state of a legal agreement.
type AgreementStatus string

const (
	AgreementDraft            AgreementStatus = "draft"
	AgreementPendingSignature AgreementStatus = "pending_signature"
	AgreementSigned           AgreementStatus = "signed"
	AgreementExecuted         AgreementStatus = "executed"
)

var agreementOrder = []AgreementStatus{AgreementDraft, AgreementPendingSignature, AgreementSigned, AgreementExecuted}

// Next returns the status that follows s in the usual progression. The progression is
// a business expectation only; the console does not refuse other transitions.
func (s AgreementStatus) Next() (AgreementStatus, bool) {
	for i, st := range agreementOrder {
		if st == s && i+1 < len(agreementOrder) {
			return agreementOrder[i+1], true
		}
	}
	return "", false
}

// IsForwardOf reports whether s comes strictly after prev.
func (s AgreementStatus) IsForwardOf(prev AgreementStatus) bool {
	return s.rank() > prev.rank()
}

func (s AgreementStatus) rank() int {
	for i, st := range agreementOrder {
		if st == s {
			return i
		}
	}
	return -1
}

// AgreementType is the kind of document an agreement represents.
type AgreementType string

const (
	AgreementSale         AgreementType = "sale_agreement"
	AgreementAllotment    AgreementType = "allotment_letter"
	AgreementConstruction AgreementType = "construction_agreement"
	AgreementLeaseDeed    AgreementType = "lease_deed"
	AgreementOther        AgreementType = "other"
)

// MinSignatories is the number of parties an agreement needs at creation.
const MinSignatories = 2

// Signatory is one party signing an agreement.
type Signatory struct {
	Name     string     `json:"name" validate:"required"`
	Role     string     `json:"role" validate:"required"`
	Email    string     `json:"email,omitempty" validate:"omitempty,email"`
	SignedAt *time.Time `json:"signed_at,omitempty"`
}

// LegalAgreement belongs to one purchased unit and carries exactly one file.
type LegalAgreement struct {
	ID            string          `json:"id"`
	UnitID        string          `json:"unit_id"`
	Title         string          `json:"title"`
	AgreementType AgreementType   `json:"agreement_type"`
	Status        AgreementStatus `json:"status"`
	Signatories   []Signatory     `json:"signatories"`
	AgreementDate *Date           `json:"agreement_date,omitempty"`
	FilePath      string          `json:"file_path"`
	FileName      string          `json:"file_name,omitempty"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

func (a LegalAgreement) GetID() string { return a.ID }

// Attachment returns the agreement's file as an attachment reference.
func (a LegalAgreement) Attachment() (Attachment, bool) {
	if a.FilePath == "" {
		return Attachment{}, false
	}
	name := a.FileName
	if name == "" {
		name = baseName(a.FilePath)
	}
	return Attachment{DisplayName: name, URL: a.FilePath}, true
}

// AgreementPayload is the metadata part of an agreement create/update.
type AgreementPayload struct {
	UnitID        string          `json:"unit_id,omitempty"`
	Title         string          `json:"title,omitempty"`
	AgreementType AgreementType   `json:"agreement_type,omitempty"`
	Status        AgreementStatus `json:"status,omitempty"`
	Signatories   []Signatory     `json:"signatories,omitempty"`
	AgreementDate *Date           `json:"agreement_date,omitempty"`
}
