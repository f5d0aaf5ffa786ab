package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type kycFields struct {
	Mobile  string `validate:"omitempty,indian_mobile"`
	PAN     string `validate:"omitempty,pan_number"`
	Aadhaar string `validate:"omitempty,aadhaar_number"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	require.NoError(t, RegisterCustomValidations(v))
	return v
}

func TestIndianMobile(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		mobile string
		valid  bool
	}{
		{"9822012345", true},
		{"6000000000", true},
		{"5822012345", false},
		{"98220123", false},
		{"98220123456", false},
		{"98220 1234", false},
	}
	for _, tt := range tests {
		err := v.Struct(kycFields{Mobile: tt.mobile})
		if tt.valid {
			assert.NoError(t, err, tt.mobile)
		} else {
			assert.Error(t, err, tt.mobile)
		}
	}
}

func TestPANAndAadhaar(t *testing.T) {
	v := newValidator(t)

	assert.NoError(t, v.Struct(kycFields{PAN: "ABCDE1234F"}))
	assert.Error(t, v.Struct(kycFields{PAN: "abcde1234f"}))
	assert.Error(t, v.Struct(kycFields{PAN: "ABCD1234EF"}))

	assert.NoError(t, v.Struct(kycFields{Aadhaar: "123456789012"}))
	assert.Error(t, v.Struct(kycFields{Aadhaar: "12345678901"}))
	assert.Error(t, v.Struct(kycFields{Aadhaar: "1234567890123"}))
}

func TestNormalizeIndianMobile(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+91 98220 12345", "9822012345"},
		{"09822012345", "9822012345"},
		{"98-220-12345", "9822012345"},
		{"9822012345", "9822012345"},
		{"982201", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeIndianMobile(tt.in), tt.in)
	}
}
