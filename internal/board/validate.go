package board

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"jobportal/internal/database"
	"jobportal/internal/errcode"
)

// FieldErrors maps a form field name to a message. It is the Validation error kind.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, e[field]))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// ErrorCode implements errcode.Coder.
func (e FieldErrors) ErrorCode() int { return errcode.Validation }

// AsFieldErrors extracts FieldErrors from err.
func AsFieldErrors(err error) (FieldErrors, bool) {
	var fe FieldErrors
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

var usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields under their form names so messages line up with inputs.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("jobtype", func(fl validator.FieldLevel) bool {
		return database.JobType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})

	return v
}

// accountIdentity carries the username and email rules of RegisterInput for
// accounts created outside the sign up form.
type accountIdentity struct {
	Username string `form:"username" validate:"required,max=150,username"`
	Email    string `form:"email" validate:"omitempty,email,max=254"`
}

var identityValidator = newValidator()

// ValidateIdentity applies the sign up rules for username and email.
func ValidateIdentity(username, email string) error {
	return checkStruct(identityValidator, accountIdentity{Username: username, Email: email})
}

func (s *Service) check(input any) error {
	return checkStruct(s.validate, input)
}

func checkStruct(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	out := make(FieldErrors, len(validationErrors))
	for _, fe := range validationErrors {
		if _, seen := out[fe.Field()]; !seen {
			out[fe.Field()] = fieldMessage(fe)
		}
	}
	return out
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "url":
		return "Enter a valid URL."
	case "min":
		return fmt.Sprintf("Ensure this value has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this value has at most %s characters.", fe.Param())
	case "eqfield":
		return "The two password fields didn't match."
	case "jobtype":
		return "Select a valid job type."
	case "username":
		return "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	case "datetime":
		return "Enter a valid date."
	default:
		return fmt.Sprintf("Invalid value (failed on '%s').", fe.Tag())
	}
}
