package domain

import (
	"chat-relay/errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

const (
	MinUsernameLength = 2
	MaxUsernameLength = 20
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Registration only fails on an empty tag or a nil func.
	_ = v.RegisterValidation("username_charset", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateUsername checks the charset first, then the length.
// The first violated rule is returned so it can be reported on its own.
func ValidateUsername(name string) error {
	if err := validate.Var(name, "username_charset"); err != nil {
		return errors.ErrUsernameCharset
	}
	if err := validate.Var(name, "min=2,max=20"); err != nil {
		return errors.ErrUsernameLength
	}
	return nil
}
