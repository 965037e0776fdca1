package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"innkeep/shared/failure"
	"innkeep/shared/timezone"

	val "github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *val.Validate

func registerCalendarDateValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)
	if !ok {
		return false
	}

	_, err := timezone.ParseDate(value)

	return err == nil
}

func registerNotBlankValidation(field val.FieldLevel) bool {
	value, ok := field.Field().Interface().(string)

	return ok && strings.TrimSpace(value) != ""
}

// decimalValue lets numeric tags (gt, gte, lte) compare money amounts.
func decimalValue(field reflect.Value) any {
	switch value := field.Interface().(type) {
	case decimal.Decimal:
		return value.InexactFloat64()
	case decimal.NullDecimal:
		if !value.Valid {
			return nil
		}

		return value.Decimal.InexactFloat64()
	}

	return nil
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}

	if name == "" {
		return field.Name
	}

	return name
}

func init() {
	validate = val.New(val.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)
	validate.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{}, decimal.NullDecimal{})

	if err := validate.RegisterValidation("empty", func(fl val.FieldLevel) bool {
		return fl.Field().IsZero()
	}); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("calendardate", registerCalendarDateValidation); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation("notblank", registerNotBlankValidation); err != nil {
		panic(err)
	}
}

// Validate decodes a JSON body into data and validates it.
// https://github.com/go-playground/validator
func Validate[T any](r io.Reader, data *T) error {
	decoder := json.NewDecoder(r)

	if err := decoder.Decode(data); err != nil {
		return failure.BadRequest(fmt.Errorf("failed to decode request body: %w", err)) //nolint:wrapcheck
	}

	return ValidateStruct(data)
}

func ValidateStruct[T any](data *T) error {
	if err := validate.Struct(data); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}

func ValidateVar(field any, tag string) error {
	if err := validate.Var(field, tag); err != nil {
		return failure.BadRequestFromString(message(err)) //nolint:wrapcheck
	}

	return nil
}
