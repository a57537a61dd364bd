package httpapi

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var fieldMessages = map[string]string{
	"required": "must not be null",
	"notblank": "must not be blank",
	"min":      "must be greater than or equal to -2147483648",
	"max":      "must be less than or equal to 2147483647",
}

// Validator checks request bodies and renders failures as
// "<field> - <message>" entries, sorted and joined by ", ".
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that names fields by their JSON name
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// only fails for empty or reserved tag names
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

// Validate returns nil or an error whose message lists every failed field
func (v *Validator) Validate(req interface{}) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fieldPath(fe.Namespace())+" - "+fieldMessage(fe.Tag()))
	}
	sort.Strings(msgs)
	return errors.New(strings.Join(msgs, ", "))
}

// fieldPath drops the struct name, LibraryEventRequest.book.bookId -> book.bookId
func fieldPath(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func fieldMessage(tag string) string {
	if msg, ok := fieldMessages[tag]; ok {
		return msg
	}
	return "is invalid"
}
