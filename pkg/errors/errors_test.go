package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServerCodes(t *testing.T) {
	assert.Equal(t, CodeRejected, Server(422, "bad").Code)
	assert.Equal(t, CodeUnauthenticated, Server(401, "expired").Code)
	assert.Equal(t, CodeNotFound, Server(404, "").Code)
	assert.Equal(t, CodeConflict, Server(409, "dup").Code)

	e := Server(500, "")
	assert.Equal(t, GenericServerText, e.Message)
	assert.Equal(t, 500, e.Status)
}

func TestIsCodeThroughWrapping(t *testing.T) {
	base := New(CodeBusy, "create already in flight")
	wrapped := fmt.Errorf("submit: %w", base)
	require.True(t, IsCode(wrapped, CodeBusy))
	require.False(t, IsCode(wrapped, CodeValidation))
	require.False(t, IsCode(stderrors.New("plain"), CodeBusy))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, GenericUnreachableText, UserMessage(Wrap(stderrors.New("dial tcp"), CodeUnreachable, "unreachable")))
	assert.Equal(t, "X", UserMessage(Server(422, "X")))

	v := Validation(map[string]string{"phone": "must be 10 digits", "email": "is required"})
	assert.Equal(t, "Please correct the highlighted fields: email: is required; phone: must be 10 digits", UserMessage(v))
}

func TestDuplicateField(t *testing.T) {
	cases := []struct {
		detail string
		field  string
		ok     bool
	}{
		{"Agent with this email already exists", "email", true},
		{"Agent with this PAN already exists", "pan_number", true},
		{"Duplicate entry for aadhar_number", "aadhar_number", true},
		{"RERA ID already registered", "rera_id", true},
		{"phone number already exists", "phone", true},
		{"Company name already exists", "", false},
		{"Internal server error", "", false},
	}
	for _, tc := range cases {
		field, hint, ok := DuplicateField(tc.detail)
		assert.Equal(t, tc.ok, ok, tc.detail)
		assert.Equal(t, tc.field, field, tc.detail)
		if ok {
			assert.NotEmpty(t, hint)
		}
	}
}
