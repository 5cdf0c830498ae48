package models

import "encoding/json"

// AgentDocumentFields lists the individually named document fields some agent
// records carry instead of a documents array, in display order.
var AgentDocumentFields = []NamedDocument{
	{Field: "pan_card", DisplayName: "PAN Card"},
	{Field: "aadhar_card", DisplayName: "Aadhar Card"},
	{Field: "rera_certificate", DisplayName: "RERA Certificate"},
	{Field: "photo", DisplayName: "Photo"},
	{Field: "agreement_document", DisplayName: "Agreement Document"},
}

// Agent is a sales agent. Email, PAN, Aadhar, RERA ID and phone are unique
// server-side.
type Agent struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Phone          string         `json:"phone"`
	PANNumber      string         `json:"pan_number"`
	AadharNumber   string         `json:"aadhar_number"`
	ReraID         string         `json:"rera_id"`
	AgencyName     string         `json:"agency_name,omitempty"`
	CommissionRate *float64       `json:"commission_rate,omitempty"`
	Address        string         `json:"address,omitempty"`
	IsActive       bool           `json:"is_active"`
	Documents      AttachmentList `json:"documents"`
	DocumentShape  DocumentShape  `json:"-"`
}

func (a Agent) GetID() string { return a.ID }

// UnmarshalJSON resolves the documents representation once, at ingestion.
func (a *Agent) UnmarshalJSON(b []byte) error {
	type agentAlias Agent
	var aux struct {
		agentAlias
		Documents json.RawMessage `json:"documents"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}
	*a = Agent(aux.agentAlias)
	a.Documents, a.DocumentShape = ResolveDocuments(aux.Documents, fields, AgentDocumentFields)
	return nil
}

// AgentPayload is the metadata part of an agent create/update.
type AgentPayload struct {
	Name           string   `json:"name,omitempty"`
	Email          string   `json:"email,omitempty"`
	Phone          string   `json:"phone,omitempty"`
	PANNumber      string   `json:"pan_number,omitempty"`
	AadharNumber   string   `json:"aadhar_number,omitempty"`
	ReraID         string   `json:"rera_id,omitempty"`
	AgencyName     string   `json:"agency_name,omitempty"`
	CommissionRate *float64 `json:"commission_rate,omitempty"`
	Address        string   `json:"address,omitempty"`
	IsActive       *bool    `json:"is_active,omitempty"`
}
