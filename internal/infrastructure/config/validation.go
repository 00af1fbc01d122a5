package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks the loaded configuration against the struct tags.
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator for config structs.
func NewValidator() *Validator {
	return &Validator{validate: validator.New()}
}

// Validate runs tag validation and rewrites failures into readable messages.
func (v *Validator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return v.formatValidationError(err)
	}
	return nil
}

func (v *Validator) formatValidationError(err error) error {
	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		messages = append(messages, fmt.Sprintf(
			"field '%s' failed validation: %s (value: '%v')",
			e.Field(),
			e.Tag(),
			e.Value(),
		))
	}
	return fmt.Errorf("validation failed:\n  %s", strings.Join(messages, "\n  "))
}

// ValidateConfig validates the entire configuration after defaults applied.
func ValidateConfig(cfg *Config) error {
	return NewValidator().Validate(cfg)
}
