package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/selection"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// AgreementWorkflow is the legal agreement screen: project picker, unit picker, and
// the agreements of the selected unit.
type AgreementWorkflow interface {
	SelectProject(ctx context.Context, projectID string) error
	SelectUnit(unitID string) error
	Units() selection.Snapshot[models.PurchasedUnit]
	ListByUnit(ctx context.Context, unitID string) ([]lifecycle.Row[models.LegalAgreement], error)
	Create(ctx context.Context, f *forms.AgreementForm, file client.File) (*models.LegalAgreement, error)
	Update(ctx context.Context, id string, f *forms.AgreementForm, file *client.File) (*models.LegalAgreement, error)
	Delete(ctx context.Context, id string) error
	Download(ctx context.Context, a models.LegalAgreement) (string, error)
}

type agreementWorkflow struct {
	agreements *lifecycle.Manager[models.LegalAgreement]
	resolver   *selection.Resolver[models.PurchasedUnit]
	log        *zap.Logger
}

var _ AgreementWorkflow = (*agreementWorkflow)(nil)

func NewAgreementWorkflow(units lifecycle.Backend[models.PurchasedUnit], agreements *lifecycle.Manager[models.LegalAgreement]) AgreementWorkflow {
	return &agreementWorkflow{
		agreements: agreements,
		resolver: selection.New("unit_id", func(ctx context.Context, projectID string) ([]models.PurchasedUnit, error) {
			return listAll(ctx, units, map[string]string{"project_id": projectID}, func(u models.PurchasedUnit) bool {
				return u.ProjectID == projectID
			})
		}, func(u models.PurchasedUnit) string { return u.ID }),
		log: logger.Named("agreements"),
	}
}

func (w *agreementWorkflow) SelectProject(ctx context.Context, projectID string) error {
	return w.resolver.SelectParent(ctx, projectID)
}

func (w *agreementWorkflow) SelectUnit(unitID string) error {
	return w.resolver.SelectChild(unitID)
}

func (w *agreementWorkflow) Units() selection.Snapshot[models.PurchasedUnit] {
	return w.resolver.Snapshot()
}

// ListByUnit loads the agreements of one unit. An empty unitID falls back to the
// selected unit.
func (w *agreementWorkflow) ListByUnit(ctx context.Context, unitID string) ([]lifecycle.Row[models.LegalAgreement], error) {
	if unitID == "" {
		if u, ok := w.resolver.Selected(); ok {
			unitID = u.ID
		}
	}
	if unitID == "" {
		return nil, appErr.Validation(map[string]string{"unit_id": "select a unit first"})
	}
	w.agreements.SetQuery(client.Query{Filters: map[string]string{"unit_id": unitID}})
	if err := w.agreements.Refresh(ctx); err != nil {
		return nil, err
	}
	rows := w.agreements.Items()
	out := rows[:0]
	for _, r := range rows {
		if r.Item.UnitID == unitID {
			out = append(out, r)
		}
	}
	return out, nil
}

// Create sends the agreement together with its file. Form errors come first; a missing
// file is reported by the manager before any call.
func (w *agreementWorkflow) Create(ctx context.Context, f *forms.AgreementForm, file client.File) (*models.LegalAgreement, error) {
	if f.UnitID == "" {
		if u, ok := w.resolver.Selected(); ok {
			f.UnitID = u.ID
		}
	}
	payload, err := f.Submit()
	if err != nil {
		return nil, err
	}
	var files []client.File
	if file.Content != nil {
		files = append(files, file)
	}
	a, err := w.agreements.Create(ctx, payload, files...)
	if err != nil {
		return nil, formError(err)
	}
	w.log.Info("agreement created", zap.String("agreement_id", a.ID), zap.String("unit_id", a.UnitID))
	return a, nil
}

// Update replaces the file only when one is given.
func (w *agreementWorkflow) Update(ctx context.Context, id string, f *forms.AgreementForm, file *client.File) (*models.LegalAgreement, error) {
	f.ID = id
	payload, err := f.Submit()
	if err != nil {
		return nil, err
	}
	var files []client.File
	if file != nil && file.Content != nil {
		files = append(files, *file)
	}
	if f.Status != "" {
		if cur, gerr := w.agreements.Get(ctx, id); gerr == nil && cur.Status.IsForwardOf(f.Status) {
			w.log.Info("agreement status moved backwards",
				zap.String("agreement_id", id),
				zap.String("from", string(cur.Status)),
				zap.String("to", string(f.Status)),
			)
		}
	}
	a, err := w.agreements.Update(ctx, id, payload, files...)
	if err != nil {
		return nil, formError(err)
	}
	return a, nil
}

func (w *agreementWorkflow) Delete(ctx context.Context, id string) error {
	return w.agreements.Delete(ctx, id)
}

func (w *agreementWorkflow) Download(ctx context.Context, a models.LegalAgreement) (string, error) {
	att, ok := a.Attachment()
	if !ok {
		return "", appErr.Validation(map[string]string{"file": "agreement has no file"})
	}
	return w.agreements.Download(ctx, att.URL)
}
