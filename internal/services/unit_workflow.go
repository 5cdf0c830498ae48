package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/selection"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// UnitWorkflow is the purchased-unit screen: a project picker narrowing the scheme
// picker, and the unit editor.
type UnitWorkflow interface {
	SelectProject(ctx context.Context, projectID string) error
	SelectScheme(schemeID string) error
	Schemes() selection.Snapshot[models.Scheme]
	Create(ctx context.Context, f *forms.UnitForm) (*models.PurchasedUnit, error)
	Update(ctx context.Context, id string, f *forms.UnitForm) (*models.PurchasedUnit, error)
	Patch(ctx context.Context, id string, p forms.Patch) (*models.PurchasedUnit, error)
	Units() *lifecycle.Manager[models.PurchasedUnit]
}

type unitWorkflow struct {
	schemes  lifecycle.Backend[models.Scheme]
	units    *lifecycle.Manager[models.PurchasedUnit]
	resolver *selection.Resolver[models.Scheme]
	log      *zap.Logger
}

var _ UnitWorkflow = (*unitWorkflow)(nil)

func NewUnitWorkflow(schemes lifecycle.Backend[models.Scheme], units *lifecycle.Manager[models.PurchasedUnit]) UnitWorkflow {
	w := &unitWorkflow{schemes: schemes, units: units, log: logger.Named("units")}
	w.resolver = selection.New("scheme_id", func(ctx context.Context, projectID string) ([]models.Scheme, error) {
		return listAll(ctx, schemes, map[string]string{"project_id": projectID}, func(s models.Scheme) bool {
			return s.ProjectID == projectID && s.IsActive
		})
	}, func(s models.Scheme) string { return s.ID })
	return w
}

func (w *unitWorkflow) SelectProject(ctx context.Context, projectID string) error {
	return w.resolver.SelectParent(ctx, projectID)
}

func (w *unitWorkflow) SelectScheme(schemeID string) error {
	return w.resolver.SelectChild(schemeID)
}

func (w *unitWorkflow) Schemes() selection.Snapshot[models.Scheme] {
	return w.resolver.Snapshot()
}

func (w *unitWorkflow) Units() *lifecycle.Manager[models.PurchasedUnit] { return w.units }

// Create fills project and scheme from the pickers when the form leaves them empty,
// then checks against a fresh read that the scheme still belongs to the project.
func (w *unitWorkflow) Create(ctx context.Context, f *forms.UnitForm) (*models.PurchasedUnit, error) {
	payload, err := w.prepare(ctx, f)
	if err != nil {
		return nil, err
	}
	u, err := w.units.Create(ctx, payload)
	if err != nil {
		return nil, formError(err)
	}
	w.log.Info("unit created", zap.String("unit_id", u.ID), zap.String("scheme_id", u.SchemeID))
	return u, nil
}

func (w *unitWorkflow) Update(ctx context.Context, id string, f *forms.UnitForm) (*models.PurchasedUnit, error) {
	f.ID = id
	payload, err := w.prepare(ctx, f)
	if err != nil {
		return nil, err
	}
	u, err := w.units.Update(ctx, id, payload)
	if err != nil {
		return nil, formError(err)
	}
	return u, nil
}

// Patch sends a partial update checked over a fresh read of the unit. When the patch
// moves the unit to another project or scheme, the merged pair is checked the same way
// Create checks it.
func (w *unitWorkflow) Patch(ctx context.Context, id string, p forms.Patch) (*models.PurchasedUnit, error) {
	stored, err := w.units.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	f := forms.EditUnitForm(*stored)
	out, err := forms.ValidatePatchOn(f, id, p)
	if err != nil {
		return nil, err
	}
	_, moved := out["scheme_id"]
	if _, ok := out["project_id"]; ok {
		moved = true
	}
	if moved {
		if err := w.checkScheme(ctx, f.ProjectID, f.SchemeID); err != nil {
			return nil, err
		}
	}
	u, err := w.units.Update(ctx, id, out)
	if err != nil {
		return nil, formError(err)
	}
	w.log.Info("unit patched", zap.String("unit_id", id), zap.Int("fields", len(out)))
	return u, nil
}

func (w *unitWorkflow) prepare(ctx context.Context, f *forms.UnitForm) (models.PurchasedUnitPayload, error) {
	if f.ProjectID == "" {
		f.ProjectID = w.resolver.ParentID()
	}
	if f.SchemeID == "" {
		if s, ok := w.resolver.Selected(); ok && s.ProjectID == f.ProjectID {
			f.SchemeID = s.ID
		}
	}
	payload, err := f.Submit()
	if err != nil {
		return payload, err
	}
	if err := w.checkScheme(ctx, payload.ProjectID, payload.SchemeID); err != nil {
		return payload, err
	}
	return payload, nil
}

func (w *unitWorkflow) checkScheme(ctx context.Context, projectID, schemeID string) error {
	s, err := w.schemes.Get(ctx, schemeID)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.Validation(map[string]string{"scheme_id": "scheme no longer exists"})
		}
		return err
	}
	if s.ProjectID != projectID {
		w.log.Warn("scheme belongs to another project",
			zap.String("scheme_id", schemeID),
			zap.String("scheme_project_id", s.ProjectID),
			zap.String("project_id", projectID),
		)
		return appErr.Validation(map[string]string{"scheme_id": "does not belong to the selected project"})
	}
	return nil
}
