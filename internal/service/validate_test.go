package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name      string
		in        any
		wantField string
		wantMsg   string
	}{
		{
			name:      "camel case field name",
			in:        validUnitInputWith(func(in *UnitInput) { in.ClientPhone = "" }),
			wantField: "clientPhone",
			wantMsg:   "is required",
		},
		{
			name:      "enum lists the accepted values",
			in:        validUnitInputWith(func(in *UnitInput) { in.Type = "Lease" }),
			wantField: "type",
			wantMsg:   "must be one of Sale, Rent",
		},
		{
			name:      "photos count",
			in:        validUnitInputWith(func(in *UnitInput) { in.Photos = nil }),
			wantField: "photos",
			wantMsg:   "at least 1 required",
		},
		{
			name:      "display name address is not a bare email",
			in:        LeadInput{Name: "Mona", Phone: "0100", Email: "Mona <mona@example.com>", Status: "New"},
			wantField: "email",
			wantMsg:   "must be a valid email address",
		},
		{
			name:      "short password",
			in:        SignupInput{Email: "a@b.co", Username: "abc", Password: "12345"},
			wantField: "password",
			wantMsg:   "must be at least 6 characters",
		},
		{
			name:      "phone without digits",
			in:        ContactInput{Name: "Omar", Phone: "call me"},
			wantField: "phone",
			wantMsg:   "must contain digits",
		},
		{
			name: "buyer signup",
			in:   SignupInput{Email: "a@b.co", Username: "abc", Password: "secret1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := check(tt.in)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.wantField, ve.Field)
			assert.Equal(t, tt.wantMsg, ve.Message)
		})
	}
}

func TestAdminInput_PasswordOnlyRequiredOnCreate(t *testing.T) {
	in := AdminInput{Username: "sara", Email: "sara@almoftah.test", Role: "admin"}

	var ve *ValidationError
	require.ErrorAs(t, in.validate(true), &ve)
	assert.Equal(t, "password", ve.Field)

	assert.NoError(t, in.validate(false))

	in.Password = "123"
	require.ErrorAs(t, in.validate(false), &ve)
	assert.Equal(t, "password", ve.Field)
}

func validUnitInputWith(mutate func(in *UnitInput)) UnitInput {
	in := validUnitInput()
	mutate(&in)
	return in
}
