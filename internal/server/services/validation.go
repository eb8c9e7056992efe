package services

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/dmitrijs2005/accounts/internal/common"
	"github.com/go-playground/validator/v10"
)

var fullNameRe = regexp.MustCompile(`^[A-Za-z\s]+$`)

const passwordSymbols = "@$!%*?&"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return fullNameRe.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		return isStrongPassword(fl.Field().String())
	})
	return v
}

// isStrongPassword requires a lowercase letter, an uppercase letter, a digit
// and one of passwordSymbols, and rejects any other character.
func isStrongPassword(s string) bool {
	var lower, upper, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return false
		}
	}
	return lower && upper && digit && symbol
}

// ValidationError carries one message per rejected field.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == common.ErrValidation
}

type accountInput struct {
	FullName string `json:"fullName" validate:"required,fullname"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72,password"`
}

type updateInput struct {
	FullName *string `json:"fullName" validate:"omitempty,fullname"`
	Password *string `json:"password" validate:"omitempty,min=8,max=72,password"`
}

func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		name := jsonName(fe.Field())
		if _, seen := out.Fields[name]; !seen {
			out.Fields[name] = fieldMessage(name, fe.Tag())
		}
	}
	return out
}

func jsonName(field string) string {
	switch field {
	case "FullName":
		return "fullName"
	case "Email":
		return "email"
	case "Password":
		return "password"
	}
	return strings.ToLower(field)
}

func fieldMessage(field, tag string) string {
	switch field {
	case "fullName":
		if tag == "required" {
			return "Full name is required"
		}
		return "Full name must contain only alphabetic characters"
	case "email":
		if tag == "required" {
			return "Email is required"
		}
		return "Please provide a valid email"
	case "password":
		if tag == "required" {
			return "Password is required"
		}
		return "Password must be at least 8 characters with at least one uppercase letter, one lowercase letter, one digit, and one special character"
	}
	return "Invalid value"
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
