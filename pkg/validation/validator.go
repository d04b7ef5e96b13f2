// Package validation configures the shared request validator and renders its errors as readable messages.
package validation

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

const (
	notBlankTag = "notblank"
	positionTag = "position"
	roleTag     = "role"
)

var customMessages = map[string]string{
	notBlankTag: "{0} cannot be blank",
	positionTag: "{0} must be one of FOR, AGAINST, NEUTRAL",
	roleTag:     "{0} must be one of STUDENT, SECRETARY_GENERAL, TEACHER",
}

// Validator bundles the validator instance with its English translator.
type Validator struct {
	*validator.Validate
	translator ut.Translator
}

// New builds a validator that reports JSON field names and knows the club specific tags.
func New() *Validator {
	v := validator.New()
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	_ = enTranslations.RegisterDefaultTranslations(v, translator)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	_ = v.RegisterValidation(notBlankTag, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(positionTag, func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "FOR", "AGAINST", "NEUTRAL":
			return true
		}
		return false
	})
	_ = v.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		switch fl.Field().String() {
		case "STUDENT", "SECRETARY_GENERAL", "TEACHER":
			return true
		}
		return false
	})

	for tag, message := range customMessages {
		message := message
		_ = v.RegisterTranslation(tag, translator, func(t ut.Translator) error {
			return t.Add(tag, message, true)
		}, func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(fe.Tag(), fe.Field())
			return msg
		})
	}

	return &Validator{Validate: v, translator: translator}
}

// Messages maps field names to translated messages. Non-validation errors yield nil.
func (v *Validator) Messages(err error) map[string]string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = fe.Translate(v.translator)
	}
	return out
}

// Summary joins the translated messages into one deterministic sentence.
func (v *Validator) Summary(err error) string {
	messages := v.Messages(err)
	if len(messages) == 0 {
		if err == nil {
			return ""
		}
		return err.Error()
	}
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, msg)
	}
	sort.Strings(parts)
	return strings.Join(parts, "; ")
}
