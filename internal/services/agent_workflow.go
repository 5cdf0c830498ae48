package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/forms"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/lifecycle"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/logger"
)

// AgentWorkflow is the agent screen. Documents travel as repeated file parts next to
// the agent metadata.
type AgentWorkflow interface {
	Create(ctx context.Context, f *forms.AgentForm, docs ...client.File) (*models.Agent, error)
	Update(ctx context.Context, id string, f *forms.AgentForm, docs ...client.File) (*models.Agent, error)
	Documents(ctx context.Context, id string) (models.AttachmentList, error)
	DownloadDocument(ctx context.Context, doc models.Attachment) (string, error)
	Agents() *lifecycle.Manager[models.Agent]
}

type agentWorkflow struct {
	agents *lifecycle.Manager[models.Agent]
	log    *zap.Logger
}

var _ AgentWorkflow = (*agentWorkflow)(nil)

func NewAgentWorkflow(agents *lifecycle.Manager[models.Agent]) AgentWorkflow {
	return &agentWorkflow{agents: agents, log: logger.Named("agents")}
}

func (w *agentWorkflow) Agents() *lifecycle.Manager[models.Agent] { return w.agents }

// Create validates formats locally; uniqueness is only known to the server, and its
// duplicate messages come back as field errors on the returned FormError.
func (w *agentWorkflow) Create(ctx context.Context, f *forms.AgentForm, docs ...client.File) (*models.Agent, error) {
	payload, err := f.Submit()
	if err != nil {
		return nil, err
	}
	if err := checkDocuments(docs); err != nil {
		return nil, err
	}
	a, err := w.agents.Create(ctx, payload, docs...)
	if err != nil {
		fe := formError(err)
		if e, ok := AsFormError(fe); ok && len(e.Feedback.Fields) > 0 {
			w.log.Info("agent rejected", zap.Any("fields", e.Feedback.Fields))
		}
		return nil, fe
	}
	w.log.Info("agent created", zap.String("agent_id", a.ID), zap.Int("documents", len(a.Documents)))
	return a, nil
}

func (w *agentWorkflow) Update(ctx context.Context, id string, f *forms.AgentForm, docs ...client.File) (*models.Agent, error) {
	f.ID = id
	payload, err := f.Submit()
	if err != nil {
		return nil, err
	}
	if err := checkDocuments(docs); err != nil {
		return nil, err
	}
	a, err := w.agents.Update(ctx, id, payload, docs...)
	if err != nil {
		return nil, formError(err)
	}
	return a, nil
}

// Documents reads the agent fresh and returns its documents in canonical form,
// whichever shape the backend stored them in.
func (w *agentWorkflow) Documents(ctx context.Context, id string) (models.AttachmentList, error) {
	a, err := w.agents.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.DocumentShape == models.ShapeNamed || a.DocumentShape == models.ShapeEncoded {
		w.log.Debug("agent documents read from legacy shape",
			zap.String("agent_id", id), zap.Stringer("shape", a.DocumentShape))
	}
	return a.Documents, nil
}

func (w *agentWorkflow) DownloadDocument(ctx context.Context, doc models.Attachment) (string, error) {
	if doc.URL == "" {
		return "", appErr.Validation(map[string]string{"documents": "document has no url"})
	}
	return w.agents.Download(ctx, doc.URL)
}

func checkDocuments(docs []client.File) error {
	fields := map[string]string{}
	for i, d := range docs {
		if d.Content == nil || d.Name == "" {
			fields[fmt.Sprintf("documents[%d]", i)] = "file is empty"
		}
	}
	if len(fields) > 0 {
		return appErr.Validation(fields)
	}
	return nil
}
