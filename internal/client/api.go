package client

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// Resource descriptions for both backends.
var (
	ProjectsSpec   = ResourceSpec{Name: "projects", MetadataField: "project", FileField: "images", AlwaysMultipart: true}
	SchemesSpec    = ResourceSpec{Name: "schemes", MetadataField: "scheme", AlwaysMultipart: true}
	UnitsSpec      = ResourceSpec{Name: "purchased-units", MetadataField: "request"}
	AgreementsSpec = ResourceSpec{Name: "legal-agreements", MetadataField: "agreement", FileField: "file", AlwaysMultipart: true}
	AgentsSpec     = ResourceSpec{Name: "agents", MetadataField: "agent", FileField: "documents", AlwaysMultipart: true}
	ContactsSpec   = ResourceSpec{Name: "contacts"}
	AdminsSpec     = ResourceSpec{Name: "admins"}
)

// API bundles one typed resource per backend entity.
type API struct {
	*Client
	Projects   *Resource[models.Project]
	Schemes    *Resource[models.Scheme]
	Units      *Resource[models.PurchasedUnit]
	Agreements *Resource[models.LegalAgreement]
	Agents     *Resource[models.Agent]
	Contacts   *Resource[models.ContactInfo]
	Admins     *Resource[models.Admin]
}

// NewAPI binds every resource to c.
func NewAPI(c *Client) *API {
	return &API{
		Client:     c,
		Projects:   NewResource[models.Project](c, ProjectsSpec),
		Schemes:    NewResource[models.Scheme](c, SchemesSpec),
		Units:      NewResource[models.PurchasedUnit](c, UnitsSpec),
		Agreements: NewResource[models.LegalAgreement](c, AgreementsSpec),
		Agents:     NewResource[models.Agent](c, AgentsSpec),
		Contacts:   NewResource[models.ContactInfo](c, ContactsSpec),
		Admins:     NewResource[models.Admin](c, AdminsSpec),
	}
}

// Login exchanges credentials for a bearer token and stores it in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*models.LoginResult, error) {
	fields := map[string]string{}
	if strings.TrimSpace(email) == "" {
		fields["email"] = "is required"
	}
	if password == "" {
		fields["password"] = "is required"
	}
	if len(fields) > 0 {
		return nil, appErr.Validation(fields)
	}

	body, ct, err := jsonBody(models.LoginRequest{Email: strings.TrimSpace(email), Password: password})
	if err != nil {
		return nil, err
	}
	res, err := c.do(ctx, request{
		port:        WritePort,
		method:      http.MethodPost,
		path:        "/" + AdminsSpec.Name + "/login",
		body:        body,
		contentType: ct,
		auth:        authNone,
	})
	if err != nil {
		return nil, err
	}
	out, err := decodeEntity[models.LoginResult](res)
	if err != nil {
		return nil, err
	}
	if out.AccessToken == "" {
		return nil, &appErr.AppError{Code: appErr.CodeUnparseable, Message: "Login response carried no token", Status: res.status}
	}
	if err := c.session.Set(out.AccessToken); err != nil {
		return nil, err
	}
	c.log.Info("logged in", zap.String("email", email))
	return out, nil
}

// Logout invalidates the session. There is no server-side call.
func (c *Client) Logout() error {
	return c.session.Invalidate()
}
