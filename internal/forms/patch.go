package forms

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

// Patch is a partial update that did not come from a form, such as a JSON file given
// to the CLI. Only the keys present are sent and only those are checked; absent keys
// keep their stored values.
type Patch map[string]json.RawMessage

func (p Patch) has(key string) bool {
	_, ok := p[key]
	return ok
}

// set reports whether key is present with a non-null value.
func (p Patch) set(key string) bool {
	v, ok := p[key]
	return ok && !bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func (p Patch) anySet(keys []string) bool {
	for _, k := range keys {
		if p.set(k) {
			return true
		}
	}
	return false
}

// normalizer is implemented by forms that clean up typed values (case, separators)
// before checking them.
type normalizer interface {
	normalize()
}

// partial decodes p onto form, a pointer to a zero form struct, and runs the tags of
// the fields p carries. It returns p with the present fields re-encoded from their
// normalized values. Keys the form does not know are rejected.
func (c *checker) partial(form any, id string, p Patch) Patch {
	rv := reflect.ValueOf(form).Elem()
	rt := rv.Type()
	if f := rv.FieldByName("ID"); f.IsValid() && f.Kind() == reflect.String {
		f.SetString(id)
	}

	byKey := map[string]reflect.StructField{}
	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if !f.IsExported() || name == "" || name == "-" {
			continue
		}
		byKey[name] = f
	}

	var names []string
	present := map[string]reflect.StructField{}
	for key, raw := range p {
		f, ok := byKey[key]
		if !ok {
			c.invalid(key, "is not an editable field")
			continue
		}
		if err := json.Unmarshal(raw, rv.FieldByIndex(f.Index).Addr().Interface()); err != nil {
			c.invalid(key, "has the wrong type")
			continue
		}
		names = append(names, f.Name)
		present[key] = f
	}
	if len(names) == 0 {
		return Patch{}
	}
	if n, ok := form.(normalizer); ok {
		n.normalize()
	}

	c.collect("", validate.StructPartial(form, names...))
	// StructPartial does not descend into list rows.
	for key, f := range present {
		fv := rv.FieldByIndex(f.Index)
		if fv.Kind() != reflect.Slice || fv.Type().Elem().Kind() != reflect.Struct {
			continue
		}
		for i := 0; i < fv.Len(); i++ {
			c.collect(fmt.Sprintf("%s[%d].", key, i), validate.Struct(fv.Index(i).Interface()))
		}
	}

	out := make(Patch, len(present))
	for key, f := range present {
		b, err := json.Marshal(rv.FieldByIndex(f.Index).Interface())
		if err != nil {
			c.invalid(key, "has the wrong type")
			continue
		}
		out[key] = b
	}
	return out
}

// patchChecker is implemented by forms whose rules span several fields.
type patchChecker interface {
	checkPatch(c *checker, in, out Patch)
}

// ValidatePatch checks a partial update of record id against form, a pointer to a zero
// form struct such as &AgentForm{}, and returns the patch to send.
func ValidatePatch(form any, id string, p Patch) (Patch, error) {
	return validatePatch(form, id, p, false)
}

// ValidatePatchOn checks a partial update against stored, the form pre-filled from the
// record being edited (EditUnitForm, EditContactForm and so on). Rules spanning several
// fields then read the stored value of any partner field the patch leaves out. Only
// the keys in p are sent.
func ValidatePatchOn(stored any, id string, p Patch) (Patch, error) {
	return validatePatch(stored, id, p, true)
}

func validatePatch(form any, id string, p Patch, based bool) (Patch, error) {
	if len(p) == 0 {
		return nil, appErr.Validation(map[string]string{"data": "has no fields to update"})
	}
	c := newChecker()
	c.based = based
	out := c.partial(form, id, p)
	if pc, ok := form.(patchChecker); ok {
		pc.checkPatch(c, p, out)
	}
	if err := c.err(); err != nil {
		return nil, err
	}
	return out, nil
}

// checkPatch keeps the payment-term groups exclusive among the keys present. A patch
// that sets scheme_type carries that type's whole group, and the other group must be
// absent or null and is sent as explicit null. Without scheme_type the stored type
// decides when it is known; otherwise the patch may not set fields of both groups.
func (f *SchemeForm) checkPatch(c *checker, in, out Patch) {
	if in.has("project_id") {
		c.invalid("project_id", "cannot be changed after creation")
	}
	single, inst := in.anySet(singlePaymentFields), in.anySet(installmentFields)
	switch {
	case in.has("scheme_type") && f.SchemeType == models.SchemeSinglePayment:
		markAbsent(c, in, singlePaymentFields)
		markSet(c, in, installmentFields, "must be empty for single_payment schemes")
		setNull(out, installmentFields)
	case in.has("scheme_type") && f.SchemeType == models.SchemeInstallment:
		markAbsent(c, in, installmentFields)
		markSet(c, in, singlePaymentFields, "must be empty for installment schemes")
		setNull(out, singlePaymentFields)
	case !in.has("scheme_type") && c.based && f.SchemeType == models.SchemeSinglePayment:
		markSet(c, in, installmentFields, "must be empty for single_payment schemes")
	case !in.has("scheme_type") && c.based && f.SchemeType == models.SchemeInstallment:
		markSet(c, in, singlePaymentFields, "must be empty for installment schemes")
	case !in.has("scheme_type") && single && inst:
		markSet(c, in, singlePaymentFields, "cannot be combined with installment fields")
		markSet(c, in, installmentFields, "cannot be combined with balance_payment_days")
	}
	if f.BookingAmount != nil && f.TotalAmount != nil && *f.BookingAmount > *f.TotalAmount {
		c.invalid("booking_amount", "must not exceed total_amount")
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		c.invalid("end_date", "must not be before start_date")
	}
}

// checkPatch holds the ownership rule whenever the patch touches either ownership
// field. Turning joint ownership off clears the owners. Without a stored record a bare
// joint_owners patch cannot be judged and is left to the server.
func (f *UnitForm) checkPatch(c *checker, in, out Patch) {
	touched := in.has("is_joint_ownership") || in.has("joint_owners")
	switch {
	case !touched || (!c.based && !in.has("is_joint_ownership")):
	case !f.IsJointOwnership && in.has("is_joint_ownership") && !in.has("joint_owners"):
		out["joint_owners"] = json.RawMessage("[]")
	case !f.IsJointOwnership && len(f.JointOwners) > 0:
		c.missing("joint_owners", "must be empty unless is_joint_ownership is true")
	case f.IsJointOwnership && len(f.JointOwners) == 0:
		c.missing("joint_owners", "add at least one joint owner")
	}
	if f.UserPaid != nil && f.TotalInvestment != nil && *f.UserPaid > *f.TotalInvestment {
		c.invalid("user_paid", "must not exceed total_investment")
	}
}

// checkPatch checks value against contact_type when the patch changes either. With
// only one of them present the other comes from the stored record, if there is one.
func (f *ContactForm) checkPatch(c *checker, in, _ Patch) {
	both := in.has("value") && in.has("contact_type")
	either := in.has("value") || in.has("contact_type")
	if !both && !(c.based && either) {
		return
	}
	if rule, ok := contactRules[f.ContactType]; ok {
		c.value("value", f.Value, rule)
	}
}

func markSet(c *checker, p Patch, keys []string, msg string) {
	for _, k := range keys {
		if p.set(k) {
			c.missing(k, msg)
		}
	}
}

func markAbsent(c *checker, p Patch, keys []string) {
	for _, k := range keys {
		if !p.has(k) {
			c.missing(k, "is required")
		}
	}
}

func setNull(p Patch, keys []string) {
	for _, k := range keys {
		p[k] = json.RawMessage("null")
	}
}
