package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/verte-zerg/rollcall/internal/model"
)

// flagNames maps option fields to the flag and config key users see.
var flagNames = map[string]string{
	"Mode":          "mode",
	"RecentWindow":  "recent-window",
	"WeightCeiling": "weight-ceiling",
	"TimerMinutes":  "minutes",
	"GroupCount":    "groups",
	"GroupSize":     "size",
	"LogLevel":      "log-level",
}

// Validator checks merged options and renders readable messages.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// NewValidator builds a Validator with English messages.
func NewValidator() *Validator {
	english := en.New()
	uni := ut.New(english, english)
	translator, _ := uni.GetTranslator("en")
	validate := validator.New()
	_ = en_translations.RegisterDefaultTranslations(validate, translator)
	return &Validator{validate: validate, translator: translator}
}

// Options validates opts and returns one error listing every problem.
func (v *Validator) Options(opts model.Options) error {
	err := v.validate.Struct(opts)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		name, ok := flagNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		msg := strings.Replace(fe.Translate(v.translator), fe.Field(), "--"+name, 1)
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%s", strings.Join(msgs, "\n"))
}
