// Package services composes the workflow building blocks into the screens the admin
// console offers: one lifecycle manager per resource plus the dependent pickers.
package services

import (
	"context"
	"errors"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

// Delete semantics differ per resource and are configured one by one.
var (
	ProjectPolicy   = lifecycle.Policy{Name: client.ProjectsSpec.Name, AttachmentField: "images", DeleteMode: lifecycle.SoftDelete}
	SchemePolicy    = lifecycle.Policy{Name: client.SchemesSpec.Name, DeleteMode: lifecycle.SoftDelete}
	UnitPolicy      = lifecycle.Policy{Name: client.UnitsSpec.Name, DeleteMode: lifecycle.HardDelete}
	AgreementPolicy = lifecycle.Policy{Name: client.AgreementsSpec.Name, RequireAttachment: true, AttachmentField: "file", DeleteMode: lifecycle.HardDelete}
	AgentPolicy     = lifecycle.Policy{Name: client.AgentsSpec.Name, AttachmentField: "documents", DeleteMode: lifecycle.SoftDelete}
	ContactPolicy   = lifecycle.Policy{Name: client.ContactsSpec.Name, DeleteMode: lifecycle.HardDelete}
	AdminPolicy     = lifecycle.Policy{Name: client.AdminsSpec.Name, DeleteMode: lifecycle.HardDelete}
)

// FormError carries the per-field feedback of a rejected submission next to the
// underlying error.
type FormError struct {
	Feedback forms.Feedback
	Err      error
}

func (e *FormError) Error() string { return e.Err.Error() }
func (e *FormError) Unwrap() error { return e.Err }

// AsFormError extracts the feedback of err, if it carries any.
func AsFormError(err error) (*FormError, bool) {
	var fe *FormError
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

func formError(err error) error {
	if err == nil {
		return nil
	}
	return &FormError{Feedback: forms.ApplyServerError(err), Err: err}
}

const childPageLimit = 100

// listAll walks every page of a filtered listing and keeps the items that keep(...)
// accepts, so a backend that ignores the filter still yields only matching children.
func listAll[T any](ctx context.Context, b lifecycle.Backend[T], filters map[string]string, keep func(T) bool) ([]T, error) {
	var out []T
	for page := 1; ; page++ {
		p, err := b.List(ctx, client.Query{Page: page, Limit: childPageLimit, Filters: filters})
		if err != nil {
			return nil, err
		}
		for _, it := range p.Items {
			if keep(it) {
				out = append(out, it)
			}
		}
		if !p.HasNext() || len(p.Items) == 0 {
			return out, nil
		}
	}
}

// Managers holds one lifecycle manager per resource, built from the same options.
type Managers struct {
	Projects   *lifecycle.Manager[models.Project]
	Schemes    *lifecycle.Manager[models.Scheme]
	Units      *lifecycle.Manager[models.PurchasedUnit]
	Agreements *lifecycle.Manager[models.LegalAgreement]
	Agents     *lifecycle.Manager[models.Agent]
	Contacts   *lifecycle.Manager[models.ContactInfo]
	Admins     *lifecycle.Manager[models.Admin]
}

// NewManagers wires every resource of api to a manager sharing confirm and saver.
func NewManagers(api *client.API, confirm lifecycle.Confirmer, saver lifecycle.Saver) *Managers {
	return &Managers{
		Projects:   managerFor[models.Project](api.Projects, ProjectPolicy, confirm, saver),
		Schemes:    managerFor[models.Scheme](api.Schemes, SchemePolicy, confirm, saver),
		Units:      managerFor[models.PurchasedUnit](api.Units, UnitPolicy, confirm, saver),
		Agreements: managerFor[models.LegalAgreement](api.Agreements, AgreementPolicy, confirm, saver),
		Agents:     managerFor[models.Agent](api.Agents, AgentPolicy, confirm, saver),
		Contacts:   managerFor[models.ContactInfo](api.Contacts, ContactPolicy, confirm, saver),
		Admins:     managerFor[models.Admin](api.Admins, AdminPolicy, confirm, saver),
	}
}

type identified interface{ GetID() string }

func managerFor[T identified](b lifecycle.Backend[T], p lifecycle.Policy, confirm lifecycle.Confirmer, saver lifecycle.Saver) *lifecycle.Manager[T] {
	return lifecycle.New[T](b, p, func(v T) string { return v.GetID() },
		lifecycle.WithConfirmer[T](confirm),
		lifecycle.WithSaver[T](saver),
	)
}
