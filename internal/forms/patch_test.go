package forms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
)

func patchOf(t *testing.T, s string) Patch {
	t.Helper()
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(s), &p))
	return p
}

func TestSchemePatchKeepsAbsentFields(t *testing.T) {
	out, err := ValidatePatch(&SchemeForm{}, "s1", patchOf(t, `{"name":" Renamed "}`))
	require.NoError(t, err)
	assert.Equal(t, Patch{"name": json.RawMessage(`"Renamed"`)}, out)
	assert.NotContains(t, out, "is_active")
	assert.NotContains(t, out, "project_id")
}

func TestSchemePatchTermGroups(t *testing.T) {
	out, err := ValidatePatch(&SchemeForm{}, "s1",
		patchOf(t, `{"scheme_type":"installment","total_installments":12,"monthly_installment_amount":5000}`))
	require.NoError(t, err)
	assert.JSONEq(t, "null", string(out["balance_payment_days"]))
	assert.JSONEq(t, "12", string(out["total_installments"]))

	_, err = ValidatePatch(&SchemeForm{}, "s1",
		patchOf(t, `{"scheme_type":"installment","balance_payment_days":10,"total_installments":12,"monthly_installment_amount":5000}`))
	assert.Equal(t, "must be empty for installment schemes", fieldErrors(t, err)["balance_payment_days"])

	_, err = ValidatePatch(&SchemeForm{}, "s1", patchOf(t, `{"scheme_type":"installment","total_installments":12}`))
	assert.Equal(t, "is required", fieldErrors(t, err)["monthly_installment_amount"])

	_, err = ValidatePatch(&SchemeForm{}, "s1", patchOf(t, `{"balance_payment_days":10,"total_installments":12}`))
	fields := fieldErrors(t, err)
	assert.Contains(t, fields, "balance_payment_days")
	assert.Contains(t, fields, "total_installments")

	out, err = ValidatePatch(&SchemeForm{}, "s1", patchOf(t, `{"balance_payment_days":45,"total_installments":null}`))
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestSchemePatchRejects(t *testing.T) {
	cases := map[string]struct {
		body  string
		field string
	}{
		"project moved":   {`{"project_id":"p2"}`, "project_id"},
		"unknown key":     {`{"colour":"red"}`, "colour"},
		"wrong type":      {`{"total_amount":"lots"}`, "total_amount"},
		"cleared amount":  {`{"total_amount":null}`, "total_amount"},
		"booking too big": {`{"total_amount":100,"booking_amount":150}`, "booking_amount"},
		"bad type value":  {`{"scheme_type":"barter"}`, "scheme_type"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ValidatePatch(&SchemeForm{}, "s1", patchOf(t, tc.body))
			assert.Contains(t, fieldErrors(t, err), tc.field)
		})
	}

	_, err := ValidatePatch(&SchemeForm{}, "s1", Patch{})
	assert.Contains(t, fieldErrors(t, err), "data")
}

func TestUnitPatchIsPartial(t *testing.T) {
	out, err := ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"unit_status":"allotted"}`))
	require.NoError(t, err)
	assert.Equal(t, Patch{"unit_status": json.RawMessage(`"allotted"`)}, out)

	_, err = ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"balance_amount":0}`))
	assert.Contains(t, fieldErrors(t, err), "balance_amount")

	_, err = ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"total_investment":100,"user_paid":150}`))
	assert.Contains(t, fieldErrors(t, err), "user_paid")

	_, err = ValidatePatch(&UnitForm{}, "u1",
		patchOf(t, `{"is_joint_ownership":false,"joint_owners":[{"user_profile_id":"u2","relation":"spouse"}]}`))
	assert.Contains(t, fieldErrors(t, err), "joint_owners")

	_, err = ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"joint_owners":[{"user_profile_id":"u2"}]}`))
	assert.Equal(t, "is required", fieldErrors(t, err)["joint_owners[0].relation"])
}

func TestIdentityPatchesAreNormalized(t *testing.T) {
	out, err := ValidatePatch(&AgentForm{}, "a1", patchOf(t, `{"pan_number":" abcde1234f ","phone":"90000-00001"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"ABCDE1234F"`, string(out["pan_number"]))
	assert.JSONEq(t, `"9000000001"`, string(out["phone"]))

	_, err = ValidatePatch(&AgentForm{}, "a1", patchOf(t, `{"aadhar_number":"1234"}`))
	assert.Equal(t, "must be exactly 12 digits", fieldErrors(t, err)["aadhar_number"])

	_, err = ValidatePatch(&AdminForm{}, "ad1", patchOf(t, `{"password":"short"}`))
	assert.Contains(t, fieldErrors(t, err), "password")

	_, err = ValidatePatch(&AdminForm{}, "ad1", patchOf(t, `{"name":"Staff Two"}`))
	assert.NoError(t, err)

	_, err = ValidatePatch(&ContactForm{}, "c1", patchOf(t, `{"contact_type":"phone","value":"12"}`))
	assert.Contains(t, fieldErrors(t, err), "value")
}

func TestUnitPatchOwnershipRule(t *testing.T) {
	_, err := ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"is_joint_ownership":true}`))
	assert.Equal(t, "add at least one joint owner", fieldErrors(t, err)["joint_owners"])

	out, err := ValidatePatch(&UnitForm{}, "u1", patchOf(t, `{"is_joint_ownership":false}`))
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(out["joint_owners"]))

	joint := EditUnitForm(models.PurchasedUnit{
		ID: "u1", IsJointOwnership: true,
		JointOwners: []models.JointOwner{{UserProfileID: "u2", Relation: "spouse"}},
	})
	_, err = ValidatePatchOn(joint, "u1", patchOf(t, `{"joint_owners":[]}`))
	assert.Contains(t, fieldErrors(t, err), "joint_owners")

	single := EditUnitForm(models.PurchasedUnit{ID: "u1"})
	_, err = ValidatePatchOn(single, "u1", patchOf(t, `{"joint_owners":[{"user_profile_id":"u2","relation":"spouse"}]}`))
	assert.Equal(t, "must be empty unless is_joint_ownership is true", fieldErrors(t, err)["joint_owners"])
}

func TestContactPatchUsesStoredType(t *testing.T) {
	phone := models.ContactInfo{ID: "c1", ContactType: models.ContactPhone, Value: "9000000001"}

	_, err := ValidatePatchOn(EditContactForm(phone), "c1", patchOf(t, `{"value":"zz"}`))
	assert.Equal(t, "must be exactly 10 digits", fieldErrors(t, err)["value"])

	_, err = ValidatePatchOn(EditContactForm(phone), "c1", patchOf(t, `{"contact_type":"email"}`))
	assert.Contains(t, fieldErrors(t, err), "value")

	out, err := ValidatePatchOn(EditContactForm(phone), "c1", patchOf(t, `{"value":"90000-00002"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `"9000000002"`, string(out["value"]))
}

func TestSchemePatchUsesStoredType(t *testing.T) {
	days := 30
	stored := EditSchemeForm(models.Scheme{
		ID: "s1", ProjectID: "p1", Name: "Full", SchemeType: models.SchemeSinglePayment,
		TotalAmount: 100, BalancePaymentDays: &days, IsActive: true,
	})
	_, err := ValidatePatchOn(stored, "s1", patchOf(t, `{"total_installments":12}`))
	assert.Equal(t, "must be empty for single_payment schemes", fieldErrors(t, err)["total_installments"])
}
