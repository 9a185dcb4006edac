package application

import (
	"context"
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/oksasatya/eventhub-backend/internal/domain/entity"
	"github.com/oksasatya/eventhub-backend/internal/domain/repository"
)

// RegistrationValidator inspects a prospective user before registration.
// Validators must not mutate state; a non-nil error aborts the chain.
type RegistrationValidator interface {
	ValidateRegistration(ctx context.Context, u *entity.User) error
}

// LoginValidator inspects a login attempt before credentials are checked.
type LoginValidator interface {
	ValidateLogin(ctx context.Context, username, password string) error
}

// runRegistrationChain invokes each validator in order and stops at the
// first failure. The failing validator's error is returned unchanged.
func runRegistrationChain(ctx context.Context, chain []RegistrationValidator, u *entity.User) error {
	for _, v := range chain {
		if err := v.ValidateRegistration(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func runLoginChain(ctx context.Context, chain []LoginValidator, username, password string) error {
	for _, v := range chain {
		if err := v.ValidateLogin(ctx, username, password); err != nil {
			return err
		}
	}
	return nil
}

// RequiredFieldsValidator rejects registrations with missing identity fields.
type RequiredFieldsValidator struct{}

func (RequiredFieldsValidator) ValidateRegistration(_ context.Context, u *entity.User) error {
	switch {
	case u.Username == "":
		return NewValidationError("username is required")
	case u.Password == "":
		return NewValidationError("password is required")
	case u.Email == "":
		return NewValidationError("email is required")
	}
	return nil
}

// UsernameFormatValidator enforces length and character-set rules.
type UsernameFormatValidator struct{}

func (UsernameFormatValidator) ValidateRegistration(_ context.Context, u *entity.User) error {
	if n := utf8.RuneCountInString(u.Username); n < 3 || n > 32 {
		return NewValidationError("username must be between 3 and 32 characters")
	}
	for _, r := range u.Username {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return NewValidationError("username may only contain letters, digits, '.', '_' and '-'")
		}
	}
	return nil
}

// PasswordStrengthValidator requires a minimum length plus mixed-case
// letters and a digit.
type PasswordStrengthValidator struct{}

func (PasswordStrengthValidator) ValidateRegistration(_ context.Context, u *entity.User) error {
	if weakPassword(u.Password) {
		return NewValidationError("password too weak")
	}
	return nil
}

func weakPassword(pw string) bool {
	if len(pw) < 8 {
		return true
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return !upper || !lower || !digit
}

// UsernameAvailabilityValidator checks the persistence gateway for an
// existing user with the same username. The database unique constraint
// remains the authority; this check only produces a friendlier error.
type UsernameAvailabilityValidator struct {
	Users repository.UserRepository
}

func (v UsernameAvailabilityValidator) ValidateRegistration(ctx context.Context, u *entity.User) error {
	_, err := v.Users.GetByUsername(ctx, u.Username)
	if err == nil {
		return NewValidationError("username already taken")
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	return err
}

// LoginFieldsValidator rejects login attempts with missing fields before
// any credential lookup happens.
type LoginFieldsValidator struct{}

func (LoginFieldsValidator) ValidateLogin(_ context.Context, username, password string) error {
	if username == "" || password == "" {
		return NewValidationError("username and password are required")
	}
	return nil
}

// DefaultRegistrationChain is the production validator ordering.
func DefaultRegistrationChain(users repository.UserRepository) []RegistrationValidator {
	return []RegistrationValidator{
		RequiredFieldsValidator{},
		UsernameFormatValidator{},
		PasswordStrengthValidator{},
		UsernameAvailabilityValidator{Users: users},
	}
}

// DefaultLoginChain is the production login validator ordering.
func DefaultLoginChain() []LoginValidator {
	return []LoginValidator{
		LoginFieldsValidator{},
	}
}
