package forms

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/internal/models"
	appErr "github.com/sravanthi2126/Ramya-Constructions-Admin-sub000/pkg/errors"
)

func fieldErrors(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	ae, ok := appErr.As(err)
	require.True(t, ok, "expected AppError, got %T", err)
	require.Equal(t, appErr.CodeValidation, ae.Code)
	return ae.Fields
}

func filledScheme() *SchemeForm {
	f := NewSchemeForm("p1")
	f.Name = "Gold Plan"
	f.TotalAmount = ptr(600000.0)
	return f
}

func TestSchemeGroupsAreExclusive(t *testing.T) {
	// Operator fills both groups while switching scheme_type back and forth.
	for _, st := range []models.SchemeType{models.SchemeSinglePayment, models.SchemeInstallment} {
		f := filledScheme()
		f.SchemeType = st
		f.BalancePaymentDays = ptr(90)
		f.TotalInstallments = ptr(12)
		f.MonthlyInstallmentAmount = ptr(50000.0)

		p, err := f.Submit()
		require.NoError(t, err)
		assert.NotEqual(t, p.SinglePaymentGroupSet(), p.InstallmentGroupSet(), "exactly one group for %s", st)

		b, err := json.Marshal(p)
		require.NoError(t, err)
		var raw map[string]any
		require.NoError(t, json.Unmarshal(b, &raw))
		if st == models.SchemeSinglePayment {
			assert.Nil(t, raw["total_installments"])
			assert.Nil(t, raw["monthly_installment_amount"])
			assert.EqualValues(t, 90, raw["balance_payment_days"])
		} else {
			assert.Nil(t, raw["balance_payment_days"])
			assert.EqualValues(t, 12, raw["total_installments"])
		}
	}

	// Hidden values survive on the form itself.
	f := filledScheme()
	f.SchemeType = models.SchemeInstallment
	f.BalancePaymentDays = ptr(10)
	f.TotalInstallments = ptr(12)
	f.MonthlyInstallmentAmount = ptr(5000.0)
	_, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, 10, *f.BalancePaymentDays)
}

func TestSchemeRequiredOnlyInActiveGroup(t *testing.T) {
	f := filledScheme()
	f.SchemeType = models.SchemeInstallment
	f.BalancePaymentDays = ptr(30)

	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{
		"total_installments":         "is required",
		"monthly_installment_amount": "is required",
	}, fields)

	f.SchemeType = models.SchemeSinglePayment
	f.BalancePaymentDays = nil
	fields = fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"balance_payment_days": "is required"}, fields)
}

func TestSchemeRequiredBeforeSanity(t *testing.T) {
	f := filledScheme()
	f.Name = ""
	f.BalancePaymentDays = ptr(30)
	f.StartDate = ptr(models.NewDate(2025, 6, 1))
	f.EndDate = ptr(models.NewDate(2025, 1, 1))

	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"name": "is required"}, fields)

	f.Name = "Gold Plan"
	fields = fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"end_date": "must not be before start_date"}, fields)
}

func TestSchemeProjectImmutable(t *testing.T) {
	f := EditSchemeForm(models.Scheme{
		ID: "s1", ProjectID: "p1", Name: "Gold", SchemeType: models.SchemeSinglePayment,
		TotalAmount: 1000, BalancePaymentDays: ptr(30), IsActive: true,
	})
	f.ProjectID = "p2"
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "project_id")
}

func TestSchemeRejectHidden(t *testing.T) {
	f := &SchemeForm{
		ProjectID:                "p1",
		Name:                     "Silver",
		SchemeType:               models.SchemeInstallment,
		TotalAmount:              ptr(60000.0),
		TotalInstallments:        ptr(12),
		MonthlyInstallmentAmount: ptr(5000.0),
	}
	require.NoError(t, f.RejectHidden())

	f.BalancePaymentDays = ptr(10)
	fields := fieldErrors(t, f.RejectHidden())
	assert.Contains(t, fields, "balance_payment_days")
}

func TestUnitJointOwnership(t *testing.T) {
	base := func() *UnitForm {
		f := NewUnitForm()
		f.ProjectID, f.SchemeID, f.UserProfileID, f.UnitNumber = "p1", "s1", "u-main", "A-101"
		f.TotalInvestment = ptr(500000.0)
		f.UserPaid = ptr(100000.0)
		return f
	}

	f := base()
	f.AddJointOwner(models.JointOwner{UserProfileID: "u-2", Relation: "spouse", SharePercentage: ptr(50.0)})
	p, err := f.Submit()
	require.NoError(t, err)
	assert.False(t, *p.IsJointOwnership)
	assert.Empty(t, p.JointOwners)

	f.IsJointOwnership = true
	p, err = f.Submit()
	require.NoError(t, err)
	assert.True(t, *p.IsJointOwnership)
	assert.Len(t, p.JointOwners, 1)

	f.RemoveJointOwner(0)
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"joint_owners": "add at least one joint owner"}, fields)

	f.AddJointOwner(models.JointOwner{UserProfileID: "u-2"})
	fields = fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"joint_owners[0].relation": "is required"}, fields)

	f.JointOwners[0].Relation = "sibling"
	f.JointOwners[0].SharePercentage = ptr(70.0)
	f.AddJointOwner(models.JointOwner{UserProfileID: "u-3", Relation: "parent", SharePercentage: ptr(40.0)})
	fields = fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "joint_owners")

	f.JointOwners[1].SharePercentage = ptr(140.0)
	fields = fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, "must be at most 100", fields["joint_owners[1].share_percentage"])
}

func TestUnitPaidNotAboveInvestment(t *testing.T) {
	f := NewUnitForm()
	f.ProjectID, f.SchemeID, f.UserProfileID, f.UnitNumber = "p1", "s1", "u1", "B-2"
	f.TotalInvestment = ptr(100.0)
	f.UserPaid = ptr(150.0)
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "user_paid")
}

func TestUnitRejectHidden(t *testing.T) {
	f := NewUnitForm()
	f.JointOwners = []models.JointOwner{{UserProfileID: "u2", Relation: "spouse"}}
	fields := fieldErrors(t, f.RejectHidden())
	assert.Contains(t, fields, "joint_owners")

	f.IsJointOwnership = true
	assert.NoError(t, f.RejectHidden())
}

func TestProjectPlotHidesFloors(t *testing.T) {
	f := NewProjectForm()
	f.Title, f.Location = "Green Acres", "Vijayawada"
	f.TotalUnits = ptr(40)
	f.AvailableUnits = ptr(30)
	f.SoldUnits = ptr(10)
	f.TotalFloors = ptr(4)

	p, err := f.Submit()
	require.NoError(t, err)
	require.NotNil(t, p.TotalFloors)

	f.PropertyType = models.PropertyPlot
	p, err = f.Submit()
	require.NoError(t, err)
	assert.Nil(t, p.TotalFloors)

	f.ReservedUnits = ptr(5)
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "total_units")
}

func TestAgreementNeedsTwoSignatories(t *testing.T) {
	f := NewAgreementForm("u1")
	f.Title = "Sale agreement"
	f.Signatories[0] = models.Signatory{Name: "Ravi", Role: "buyer"}

	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "signatories")

	f.Signatories[1] = models.Signatory{Name: "Ramya Constructions", Role: "seller", Email: "legal@ramya.in"}
	p, err := f.Submit()
	require.NoError(t, err)
	assert.Len(t, p.Signatories, 2)

	edit := EditAgreementForm(models.LegalAgreement{ID: "a1", UnitID: "u1", Title: "Old", AgreementType: models.AgreementOther, Status: models.AgreementSigned})
	_, err = edit.Submit()
	require.NoError(t, err)
}

func TestAgentFormats(t *testing.T) {
	f := NewAgentForm()
	f.Name = "Suresh"
	f.Email = " Suresh@Example.com "
	f.Phone = "98765-43210"
	f.PANNumber = "abcde1234f"
	f.AadharNumber = "1234 5678 9012"
	f.ReraID = "RERA-AP-1"

	p, err := f.Submit()
	require.NoError(t, err)
	assert.Equal(t, "suresh@example.com", p.Email)
	assert.Equal(t, "9876543210", p.Phone)
	assert.Equal(t, "ABCDE1234F", p.PANNumber)
	assert.Equal(t, "123456789012", p.AadharNumber)

	f.Phone = "12345"
	f.PANNumber = "ABCD1234F"
	f.AadharNumber = "1234"
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{
		"phone":         "must be exactly 10 digits",
		"pan_number":    "must look like ABCDE1234F",
		"aadhar_number": "must be exactly 12 digits",
	}, fields)
}

func TestContactRulesByType(t *testing.T) {
	cases := []struct {
		typ   models.ContactType
		value string
		ok    bool
	}{
		{models.ContactPhone, "98765 43210", true},
		{models.ContactPhone, "98765", false},
		{models.ContactEmail, "info@ramya.in", true},
		{models.ContactEmail, "info-at-ramya", false},
		{models.ContactAddress, "Plot 12, MG Road, Guntur", true},
		{models.ContactAddress, "Guntur", false},
	}
	for _, tc := range cases {
		f := &ContactForm{ContactType: tc.typ, Value: tc.value}
		_, err := f.Submit()
		if tc.ok {
			assert.NoError(t, err, "%s %q", tc.typ, tc.value)
		} else {
			fields := fieldErrors(t, err)
			assert.Contains(t, fields, "value")
		}
	}

	f := &ContactForm{ContactType: "fax", Value: "x"}
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Contains(t, fields, "contact_type")
}

func TestAdminPasswordOnlyRequiredOnCreate(t *testing.T) {
	f := NewAdminForm()
	f.Name, f.Email = "Priya", "priya@ramya.in"
	fields := fieldErrors(t, func() error { _, err := f.Submit(); return err }())
	assert.Equal(t, map[string]string{"password": "is required"}, fields)

	edit := EditAdminForm(models.Admin{ID: "a1", Name: "Priya", Email: "priya@ramya.in", Role: models.RoleAdmin})
	_, err := edit.Submit()
	require.NoError(t, err)

	edit.Password = "short"
	fields = fieldErrors(t, func() error { _, err := edit.Submit(); return err }())
	assert.Contains(t, fields, "password")
}

func TestApplyServerError(t *testing.T) {
	fb := ApplyServerError(appErr.Server(400, "Agent with this email already exists"))
	assert.Equal(t, map[string]string{"email": "An account with this email already exists"}, fb.Fields)
	assert.Equal(t, "Agent with this email already exists", fb.Form)

	fb = ApplyServerError(appErr.Validation(map[string]string{"name": "is required"}))
	assert.Equal(t, "is required", fb.Fields["name"])
	assert.Empty(t, fb.Form)

	fb = ApplyServerError(appErr.New(appErr.CodeUnreachable, "dial tcp"))
	assert.Empty(t, fb.Fields)
	assert.Equal(t, appErr.GenericUnreachableText, fb.Form)
}
