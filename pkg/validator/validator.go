// ==============================================================================
// VALIDATOR PACKAGE - pkg/validator/validator.go
// ==============================================================================
package validator

import (
	"fmt"
	"html"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// VolumeTiers are the monthly volume brackets offered by the intake wizard.
var VolumeTiers = []string{"< $10k", "$10k - $50k", "$50k - $250k", "$250k+"}

var partnerRoles = map[string]bool{"OPERATOR": true, "CREATOR": true}

var notificationKinds = map[string]bool{
	"system":  true,
	"info":    true,
	"success": true,
	"warning": true,
	"error":   true,
	"bonus":   true,
}

type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := &Validator{
		validate: validator.New(),
	}
	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	v.registerCustomValidations()
	return v
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		// Format validation errors
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			var errMessages []string
			for _, e := range validationErrors {
				errMessages = append(errMessages, fmt.Sprintf(
					"Field '%s' failed validation '%s'",
					e.Field(),
					e.Tag(),
				))
			}
			return fmt.Errorf("validation failed: %v", errMessages)
		}
		return err
	}
	return nil
}

// ValidateVar checks a single value against a tag expression such as "oneof=a b".
func (v *Validator) ValidateVar(field interface{}, tag string) error {
	return v.validate.Var(field, tag)
}

// ValidateStructured returns a map of field -> error message for frontend usage
func (v *Validator) ValidateStructured(i interface{}) map[string]string {
	errs := make(map[string]string)
	if err := v.validate.Struct(i); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			for _, e := range validationErrors {
				msg := fmt.Sprintf("failed validation on '%s'", e.Tag())
				switch e.Tag() {
				case "required":
					msg = "This field is required"
					if e.Kind() == reflect.Bool {
						msg = "This attestation must be accepted"
					}
				case "email":
					msg = "Invalid email address"
				case "url":
					msg = "Invalid URL"
				case "min":
					msg = fmt.Sprintf("Must be at least %s characters", e.Param())
				case "max":
					msg = fmt.Sprintf("Must be at most %s characters", e.Param())
				case "volume_tier":
					msg = "Select one of the listed volume tiers"
				case "partner_role":
					msg = "Role must be OPERATOR or CREATOR"
				case "notification_kind":
					msg = "Unknown notification kind"
				}
				errs[e.Field()] = msg
			}
		} else {
			errs["_global"] = err.Error()
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) registerCustomValidations() {
	_ = v.validate.RegisterValidation("volume_tier", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		for _, tier := range VolumeTiers {
			if value == tier {
				return true
			}
		}
		return false
	})

	_ = v.validate.RegisterValidation("partner_role", func(fl validator.FieldLevel) bool {
		return partnerRoles[strings.ToUpper(strings.TrimSpace(fl.Field().String()))]
	})

	_ = v.validate.RegisterValidation("notification_kind", func(fl validator.FieldLevel) bool {
		return notificationKinds[fl.Field().String()]
	})
}

// Sanitize cleans string input to prevent XSS attacks
func Sanitize(input string) string {
	return html.EscapeString(strings.TrimSpace(input))
}
