package validation

import (
	"fmt"
	"strconv"
	"strings"

	errors "github.com/frahmantamala/jinzai/internal"
	"github.com/frahmantamala/jinzai/internal/core/calendar"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Label      string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
	}
}

// Field registers a field. label is the human name used in messages.
func (v *ValidationBuilder) Field(name, label string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Label:      label,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) == "" {
				return fv.fail(fmt.Sprintf("%s is required.", fv.Label), errors.ErrCodeRequiredField)
			}
		case *string:
			if v == nil || strings.TrimSpace(*v) == "" {
				return fv.fail(fmt.Sprintf("%s is required.", fv.Label), errors.ErrCodeRequiredField)
			}
		case int64:
			if v == 0 {
				return fv.fail(fmt.Sprintf("%s is required.", fv.Label), errors.ErrCodeRequiredField)
			}
		}
		return nil
	})
	return fv
}

// Date requires a YYYY-MM-DD string. Empty strings are left to Required.
func (fv *FieldValidator) Date() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && strings.TrimSpace(v) != "" {
			if _, err := calendar.ParseDate(v); err != nil {
				return fv.fail(fmt.Sprintf("%s must be a valid date (YYYY-MM-DD).", fv.Label), errors.ErrCodeInvalidDate)
			}
		}
		return nil
	})
	return fv
}

// NonNegativeInt requires a whole number >= 0 given as text.
func (fv *FieldValidator) NonNegativeInt() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || strings.TrimSpace(v) == "" {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fv.fail(fmt.Sprintf("%s must be a whole number.", fv.Label), errors.ErrCodeInvalidNumber)
		}
		if n < 0 {
			return fv.fail(fmt.Sprintf("%s cannot be negative.", fv.Label), errors.ErrCodeNegativeNumber)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(choices ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, c := range choices {
			if v == c {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("%s must be one of: %s.", fv.Label, strings.Join(choices, ", ")), errors.ErrCodeInvalidChoice)
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok && len(v) > max {
			return fv.fail(fmt.Sprintf("%s must not exceed %d characters.", fv.Label, max), errors.ErrCodeValidationFailed)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

// Validate runs every field. Only the first failure per field is reported.
func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: appErr.Message,
					Code:    string(appErr.Code),
				})
			}
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}

// ValidateDateRange checks that start is not after end. Both must already parse.
func ValidateDateRange(start, end calendar.Date) *errors.AppError {
	if start.After(end) {
		return errors.NewValidationFieldError("start_date", "Start Date cannot be after End Date.", errors.ErrCodeDateOrder)
	}
	return nil
}
