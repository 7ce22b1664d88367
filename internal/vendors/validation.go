package vendors

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	ifscPattern  = regexp.MustCompile(`^[A-Z]{4}0[A-Z0-9]{6}$`)
)

// RegisterValidators adds the pan, gstin and ifsc tags used by ApplyRequest.
// It must run against the engine gin binds with before routes serve traffic.
func RegisterValidators(v *validator.Validate) error {
	rules := map[string]*regexp.Regexp{
		"pan":   panPattern,
		"gstin": gstinPattern,
		"ifsc":  ifscPattern,
	}
	for tag, pattern := range rules {
		pattern := pattern
		err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return pattern.MatchString(strings.ToUpper(fl.Field().String()))
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// panOfGSTIN extracts the PAN embedded at positions 3-12 of a GSTIN
func panOfGSTIN(gstin string) string {
	if len(gstin) != 15 {
		return ""
	}
	return gstin[2:12]
}

func maskAccount(number string) string {
	if len(number) <= 4 {
		return number
	}
	return strings.Repeat("X", len(number)-4) + number[len(number)-4:]
}
