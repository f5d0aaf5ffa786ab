// Package validation registers the KYC field formats checked before any
// payload is dispatched: Indian mobile numbers, PAN and Aadhaar.
package validation

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

var (
	indianMobileRegexp = regexp.MustCompile(`^[6-9]\d{9}$`)
	panRegexp          = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	aadhaarRegexp      = regexp.MustCompile(`^\d{12}$`)
	nonDigitRegexp     = regexp.MustCompile(`\D`)
)

// RegisterCustomValidations installs every custom rule on the given
// validator instance.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("indian_mobile", isIndianMobile); err != nil {
		return err
	}
	if err := v.RegisterValidation("pan_number", isPAN); err != nil {
		return err
	}
	if err := v.RegisterValidation("aadhaar_number", isAadhaar); err != nil {
		return err
	}
	return nil
}

func isIndianMobile(fl validator.FieldLevel) bool {
	return indianMobileRegexp.MatchString(fl.Field().String())
}

func isPAN(fl validator.FieldLevel) bool {
	return panRegexp.MatchString(fl.Field().String())
}

func isAadhaar(fl validator.FieldLevel) bool {
	return aadhaarRegexp.MatchString(fl.Field().String())
}

// NormalizeIndianMobile strips everything but digits and keeps the last
// ten, dropping a leading 0 or +91 prefix. Returns "" when fewer than ten
// digits remain.
func NormalizeIndianMobile(phone string) string {
	digitsOnly := nonDigitRegexp.ReplaceAllString(phone, "")
	if len(digitsOnly) < 10 {
		return ""
	}
	return digitsOnly[len(digitsOnly)-10:]
}
