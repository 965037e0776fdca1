package validator

import (
	"errors"
	"reflect"
	"strings"
	"unicode"

	val "github.com/go-playground/validator/v10"
)

var messages = map[string]string{
	"required":     "{field} is required",
	"gt":           "{field} must be greater than {param}",
	"gte":          "{field} must be greater than or equal to {param}",
	"lte":          "{field} must be less than or equal to {param}",
	"oneof":        "{field} must be one of {param}",
	"email":        "{field} must be a valid email address",
	"len":          "{field} must be exactly {param} characters",
	"uuid":         "{field} must be a valid uuid",
	"notblank":     "{field} must not be blank",
	"nefield":      "{field} must differ from {param}",
	"gtfield":      "{field} must be after {param}",
	"calendardate": "{field} must be a date (2006-01-02) or an RFC3339 timestamp",
}

// Length tags read differently for text than for numbers.
var lengthMessages = map[string][2]string{
	"min": {"{field} must be at least {param} characters", "{field} must be greater than or equal to {param}"},
	"max": {"{field} must be at most {param} characters", "{field} must be less than or equal to {param}"},
}

func template(fieldErr val.FieldError) string {
	if pair, ok := lengthMessages[fieldErr.Tag()]; ok {
		if fieldErr.Kind() == reflect.String {
			return pair[0]
		}

		return pair[1]
	}

	return messages[fieldErr.Tag()]
}

// param names the other field for cross-field tags. Request fields are snake_case in JSON.
func param(fieldErr val.FieldError) string {
	if strings.HasSuffix(fieldErr.Tag(), "field") {
		return snakeCase(fieldErr.Param())
	}

	return fieldErr.Param()
}

func snakeCase(name string) string {
	var b strings.Builder

	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}

			r = unicode.ToLower(r)
		}

		b.WriteRune(r)
	}

	return b.String()
}

// message renders every violation, in declaration order.
func message(err error) string {
	var valErrors val.ValidationErrors
	if !errors.As(err, &valErrors) {
		return err.Error()
	}

	rendered := make([]string, 0, len(valErrors))

	for _, fieldErr := range valErrors {
		tmpl := template(fieldErr)
		if tmpl == "" {
			rendered = append(rendered, fieldErr.Error())

			continue
		}

		text := strings.ReplaceAll(tmpl, "{field}", fieldErr.Field())
		rendered = append(rendered, strings.ReplaceAll(text, "{param}", param(fieldErr)))
	}

	return strings.Join(rendered, "; ")
}
