package validator

import (
	"errors"
	"fmt"

	"campaign-platform/pkg/log"

	"github.com/gin-gonic/gin/binding"
	enLocale "github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

func (v *validatorImpl) initTranslator() {
	en := enLocale.New()
	v.translator, _ = ut.New(en, en).GetTranslator("en")

	if err := en_translations.RegisterDefaultTranslations(v.validate, v.translator); err != nil {
		log.GetDefaultLogger().Warn("Failed to register English translations", log.Error(err))
	}
}

func (v *validatorImpl) registerCustomTranslations() {
	trans := v.translator

	translations := map[string]string{
		Role:             "{0} must be one of super_admin, brand_admin, creator_admin",
		SignupRole:       "{0} must be brand_admin or creator_admin",
		Carrier:          "{0} must be one of cj, post, hanjin, lotte, logen, etc",
		BasePrice:        "{0} must be one of 200000, 300000, 400000, 500000",
		HigherTierOption: "{0} must be 400000, 350000 or none",
		HexColor:         "{0} must be a #RRGGBB color",
		DateYMD:          "{0} must be a YYYY-MM-DD date",
		NotEmpty:         "{0} cannot be empty",
	}

	for tag, message := range translations {
		tag, message := tag, message
		err := v.validate.RegisterTranslation(tag, trans,
			func(ut ut.Translator) error {
				return ut.Add(tag, message, true)
			},
			func(ut ut.Translator, fe validator.FieldError) string {
				t, _ := ut.T(tag, fe.Field())
				return t
			},
		)
		if err != nil {
			log.GetDefaultLogger().Warn("Failed to register translation", log.String("tag", tag), log.Error(err))
		}
	}
}

// Translate turns validation errors into field -> message. Other errors,
// such as malformed JSON, come back under the "body" key.
func (v *validatorImpl) Translate(err error) map[string]string {
	if err == nil {
		return nil
	}
	out := map[string]string{}
	var verrs validator.ValidationErrors
	var slice binding.SliceValidationError
	switch {
	case errors.As(err, &slice):
		for i, e := range slice {
			for field, msg := range v.Translate(e) {
				out[fmt.Sprintf("[%d].%s", i, field)] = msg
			}
		}
	case errors.As(err, &verrs):
		for _, fe := range verrs {
			out[fe.Namespace()] = fe.Translate(v.translator)
		}
	default:
		out["body"] = err.Error()
	}
	return out
}
