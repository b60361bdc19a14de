package composition

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// ValidationResult is the outcome of validating a value object.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// Validator checks value objects. Results never block construction; they
// only back Object.Valid and Object.Errors.
type Validator interface {
	Validate(obj *Object) ValidationResult
}

type fieldValidation struct {
	alias string
	tag   string
}

// TagValidator validates the aliases of a value object against the tags
// declared with Type.Validates, using go-playground/validator.
type TagValidator struct {
	validate *validator.Validate
}

// NewTagValidator returns a TagValidator with the stock rule set.
func NewTagValidator() *TagValidator {
	return &TagValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// RegisterValidation adds a custom tag.
func (tv *TagValidator) RegisterValidation(tag string, fn validator.Func) error {
	return tv.validate.RegisterValidation(tag, fn)
}

// Validate checks every declared rule of obj's type and its ancestors.
func (tv *TagValidator) Validate(obj *Object) ValidationResult {
	var msgs []string

	for _, fv := range obj.typ.fieldValidations() {
		msgs = append(msgs, tv.check(fv, obj.Field(fv.alias))...)
	}

	return ValidationResult{Valid: len(msgs) == 0, Errors: msgs}
}

func (tv *TagValidator) check(fv fieldValidation, value any) (msgs []string) {
	// validator panics on tags it does not know.
	defer func() {
		if r := recover(); r != nil {
			msgs = []string{fmt.Sprintf("%s: invalid rule %q: %v", fv.alias, fv.tag, r)}
		}
	}()

	err := tv.validate.Var(value, fv.tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{fmt.Sprintf("%s: %v", fv.alias, err)}
	}

	for _, fe := range verrs {
		msg := fmt.Sprintf("%s failed on the '%s' rule", fv.alias, fe.Tag())
		if fe.Param() != "" {
			msg = fmt.Sprintf("%s failed on the '%s=%s' rule", fv.alias, fe.Tag(), fe.Param())
		}

		msgs = append(msgs, msg)
	}

	return msgs
}
