package validator

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Validator checks request payloads against their binding tags and renders
// failures as field -> English message.
type Validator interface {
	binding.StructValidator
	Translate(err error) map[string]string
}

var (
	defaultValidator Validator
	defaultOnce      sync.Once
)

func DefaultValidator() Validator {
	defaultOnce.Do(func() {
		defaultValidator = New()
	})
	return defaultValidator
}

// RegisterValidatorWithGin makes ShouldBind* use DefaultValidator, so the
// custom tags and messages apply to every handler.
func RegisterValidatorWithGin() {
	binding.Validator = DefaultValidator()
}

type validatorImpl struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New panics when a custom tag cannot be registered; the tag set is fixed at
// compile time.
func New() Validator {
	v := &validatorImpl{validate: validator.New()}
	v.validate.SetTagName("binding")
	v.validate.RegisterTagNameFunc(fieldName)

	for _, r := range defaultRegistrations {
		if err := v.validate.RegisterValidation(r.Tag, r.Func); err != nil {
			panic(fmt.Sprintf("register validation %q: %v", r.Tag, err))
		}
	}
	v.initTranslator()
	v.registerCustomTranslations()
	return v
}

// fieldName reports fields by their JSON name, or their query name for
// form-bound structs, so messages match what the client sent.
func fieldName(fld reflect.StructField) string {
	tag := fld.Tag.Get("json")
	if tag == "" {
		tag = fld.Tag.Get("form")
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	return name
}

// ValidateStruct validates a struct, a pointer to one, or each element of a
// slice or array of them. Other values are accepted as is.
func (v *validatorImpl) ValidateStruct(obj any) error {
	value := reflect.ValueOf(obj)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil
		}
		value = value.Elem()
	}

	switch value.Kind() {
	case reflect.Struct:
		return v.validate.Struct(value.Interface())
	case reflect.Slice, reflect.Array:
		var errs binding.SliceValidationError
		for i := 0; i < value.Len(); i++ {
			if err := v.ValidateStruct(value.Index(i).Interface()); err != nil {
				errs = append(errs, err)
			}
		}
		if len(errs) == 0 {
			return nil
		}
		return errs
	default:
		return nil
	}
}

func (v *validatorImpl) Engine() any {
	return v.validate
}
