package sandbox

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/client"
	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

type uniqueField struct {
	field string
	label string
}

type checkContext struct {
	ctx   context.Context
	s     *Sandbox
	doc   document
	prev  document
	files []upload
}

func (c *checkContext) creating() bool { return c.prev == nil }

// rule is the server-side behaviour of one resource.
type rule struct {
	name          string
	entity        string
	metadataField string
	fileField     string
	singleFile    bool
	softDelete    bool
	hasActive     bool
	unique        []uniqueField
	check         func(c *checkContext, issues map[string]string) error
}

func rules() []rule {
	return []rule{
		{name: client.ProjectsSpec.Name, entity: "Project", metadataField: client.ProjectsSpec.MetadataField, fileField: client.ProjectsSpec.FileField, softDelete: true, hasActive: true, check: checkProject},
		{name: client.SchemesSpec.Name, entity: "Scheme", metadataField: client.SchemesSpec.MetadataField, softDelete: true, hasActive: true, check: checkScheme},
		{name: client.UnitsSpec.Name, entity: "Purchased unit", metadataField: client.UnitsSpec.MetadataField, check: checkUnit},
		{name: client.AgreementsSpec.Name, entity: "Legal agreement", metadataField: client.AgreementsSpec.MetadataField, fileField: client.AgreementsSpec.FileField, singleFile: true, check: checkAgreement},
		{
			name: client.AgentsSpec.Name, entity: "Agent", metadataField: client.AgentsSpec.MetadataField, fileField: client.AgentsSpec.FileField,
			softDelete: true, hasActive: true, check: checkAgent,
			unique: []uniqueField{{"email", "email"}, {"pan_number", "PAN"}, {"aadhar_number", "Aadhar number"}, {"rera_id", "RERA ID"}, {"phone", "phone number"}},
		},
		{name: client.ContactsSpec.Name, entity: "Contact", check: checkContact},
		{name: client.AdminsSpec.Name, entity: "Admin", hasActive: true, check: checkAdmin, unique: []uniqueField{{"email", "email"}}},
	}
}

func requireStrings(c *checkContext, issues map[string]string, keys ...string) {
	for _, k := range keys {
		if c.creating() || c.doc.set(k) || c.prev.set(k) {
			if c.doc.str(k) == "" {
				issues[k] = "field required"
			}
		}
	}
}

func oneOf(doc document, issues map[string]string, key string, allowed ...string) {
	if !doc.set(key) {
		return
	}
	v := doc.str(key)
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	issues[key] = "must be one of " + strings.Join(allowed, ", ")
}

func intField(doc document, key string) int {
	v, _ := doc.num(key)
	return int(v)
}

// parent loads the referenced record, or reports the reference as a 404.
func (c *checkContext) parent(resource, entity, id string) (document, error) {
	rec, err := c.s.records.Get(c.ctx, resource, id)
	if err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, rejectf(http.StatusNotFound, "%s not found", entity)
		}
		return nil, err
	}
	return decodeDocument(rec.Body)
}

func checkProject(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "title", "location")
	oneOf(d, issues, "status", string(models.ProjectAvailable), string(models.ProjectSoldOut), string(models.ProjectComingSoon))
	oneOf(d, issues, "property_type", string(models.PropertyCommercial), string(models.PropertyResidential),
		string(models.PropertyPlot), string(models.PropertyLand), string(models.PropertyMixedUse))
	if !models.PropertyType(d.str("property_type")).HasBuildings() {
		d["total_floors"] = nil
	}
	p := models.Project{
		TotalUnits:     intField(d, "total_units"),
		AvailableUnits: intField(d, "available_units"),
		SoldUnits:      intField(d, "sold_units"),
		ReservedUnits:  intField(d, "reserved_units"),
	}
	if !p.UnitCountersValid() {
		issues["total_units"] = "available + sold + reserved units exceed total units"
	}
	if !d.set("images") {
		d["images"] = []any{}
	}
	return nil
}

func checkScheme(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "project_id", "name")
	if !c.creating() && d.str("project_id") != c.prev.str("project_id") {
		issues["project_id"] = "cannot be changed"
		return nil
	}
	if c.creating() && d.str("project_id") != "" {
		if _, err := c.parent(client.ProjectsSpec.Name, "Project", d.str("project_id")); err != nil {
			return err
		}
	}
	oneOf(d, issues, "scheme_type", string(models.SchemeSinglePayment), string(models.SchemeInstallment))
	switch models.SchemeType(d.str("scheme_type")) {
	case models.SchemeSinglePayment:
		if !d.set("balance_payment_days") {
			issues["balance_payment_days"] = "field required"
		}
		for _, k := range []string{"total_installments", "monthly_installment_amount"} {
			if d.set(k) {
				issues[k] = "must be null for single_payment schemes"
			}
		}
	case models.SchemeInstallment:
		for _, k := range []string{"total_installments", "monthly_installment_amount"} {
			if !d.set(k) {
				issues[k] = "field required"
			}
		}
		if d.set("balance_payment_days") {
			issues["balance_payment_days"] = "must be null for installment schemes"
		}
	default:
		if c.creating() {
			issues["scheme_type"] = "field required"
		}
	}
	return nil
}

func checkUnit(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "project_id", "scheme_id", "user_profile_id", "unit_number")
	if len(issues) > 0 {
		return nil
	}
	if _, err := c.parent(client.ProjectsSpec.Name, "Project", d.str("project_id")); err != nil {
		return err
	}
	scheme, err := c.parent(client.SchemesSpec.Name, "Scheme", d.str("scheme_id"))
	if err != nil {
		return err
	}
	if scheme.str("project_id") != d.str("project_id") {
		issues["scheme_id"] = "scheme does not belong to the project"
	}
	total, ok := d.num("total_investment")
	if !ok {
		issues["total_investment"] = "field required"
	}
	paid, _ := d.num("user_paid")
	if paid > total {
		issues["user_paid"] = "cannot exceed total_investment"
	}
	d["user_paid"] = paid
	d["balance_amount"] = total - paid
	if !d.boolean("is_joint_ownership", false) {
		if len(d.list("joint_owners")) > 0 {
			issues["joint_owners"] = "only allowed for joint ownership"
		}
		d["joint_owners"] = []any{}
	} else if len(d.list("joint_owners")) == 0 {
		issues["joint_owners"] = "at least one joint owner is required"
	}
	return nil
}

func checkAgreement(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "unit_id", "title")
	oneOf(d, issues, "agreement_type", string(models.AgreementSale), string(models.AgreementAllotment),
		string(models.AgreementConstruction), string(models.AgreementLeaseDeed), string(models.AgreementOther))
	oneOf(d, issues, "status", string(models.AgreementDraft), string(models.AgreementPendingSignature),
		string(models.AgreementSigned), string(models.AgreementExecuted))
	if !d.set("status") {
		d["status"] = string(models.AgreementDraft)
	}
	if c.creating() {
		if n := len(d.list("signatories")); n < models.MinSignatories {
			issues["signatories"] = fmt.Sprintf("at least %d signatories are required", models.MinSignatories)
		}
		if len(c.files) == 0 {
			issues["file"] = "field required"
		}
	}
	if len(c.files) > 1 {
		issues["file"] = "only one file is allowed"
	}
	if d.str("unit_id") != "" {
		if _, err := c.parent(client.UnitsSpec.Name, "Purchased unit", d.str("unit_id")); err != nil {
			return err
		}
	}
	return nil
}

func checkAgent(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "name", "email", "phone", "pan_number", "aadhar_number", "rera_id")
	if d.set("email") {
		d["email"] = strings.ToLower(d.str("email"))
		if err := c.s.validate.Var(d.str("email"), "email"); err != nil {
			issues["email"] = "value is not a valid email address"
		}
	}
	if d.set("pan_number") {
		d["pan_number"] = strings.ToUpper(d.str("pan_number"))
	}
	if rate, ok := d.num("commission_rate"); ok && (rate < 0 || rate > 100) {
		issues["commission_rate"] = "must be between 0 and 100"
	}
	if !d.set("documents") {
		d["documents"] = []any{}
	}
	return nil
}

func checkContact(c *checkContext, issues map[string]string) error {
	requireStrings(c, issues, "contact_type", "value")
	oneOf(c.doc, issues, "contact_type", string(models.ContactPhone), string(models.ContactEmail), string(models.ContactAddress))
	if _, bad := issues["contact_type"]; !bad && c.doc.set("value") {
		if msg := contactValueIssue(c, models.ContactType(c.doc.str("contact_type")), c.doc.str("value")); msg != "" {
			issues["value"] = msg
		}
	}
	if !c.doc.set("is_primary") {
		c.doc["is_primary"] = false
	}
	return nil
}

func checkAdmin(c *checkContext, issues map[string]string) error {
	d := c.doc
	requireStrings(c, issues, "name", "email")
	if d.set("email") {
		d["email"] = strings.ToLower(d.str("email"))
		if err := c.s.validate.Var(d.str("email"), "email"); err != nil {
			issues["email"] = "value is not a valid email address"
		}
	}
	if !d.set("role") {
		d["role"] = string(models.RoleStaff)
	}
	oneOf(d, issues, "role", string(models.RoleSuperAdmin), string(models.RoleAdmin), string(models.RoleStaff))
	return nil
}

// contactValueIssue checks a stored contact value against its type, after the update
// is merged so a change to either field is covered.
func contactValueIssue(c *checkContext, t models.ContactType, v string) string {
	switch t {
	case models.ContactPhone:
		if c.s.validate.Var(v, "len=10,numeric") != nil {
			return "phone number must be 10 digits"
		}
	case models.ContactEmail:
		if c.s.validate.Var(v, "email") != nil {
			return "value is not a valid email address"
		}
	case models.ContactAddress:
		if len(strings.TrimSpace(v)) < 10 {
			return "address is too short"
		}
	}
	return ""
}
