package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/JaidenRM/recipe-shopper-api/internal/domain"
)

// FieldError is a single violated rule. Field is the JSON path of the
// offending value, e.g. "ingredients[1].measurementUnit".
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	rule    string
}

// ValidationError collects every violated rule of one command.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		parts = append(parts, fe.Field+": "+fe.Message)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is(err, ErrValidation) match.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// Is also matches domain.ErrUnrecognizedUnit when one of the violations is
// an unparseable measurement unit.
func (e *ValidationError) Is(target error) bool {
	if target != domain.ErrUnrecognizedUnit {
		return false
	}
	for _, fe := range e.Errors {
		if fe.rule == "unit" {
			return true
		}
	}
	return false
}

func newValidationError(field, msg string) *ValidationError {
	return &ValidationError{Errors: []FieldError{{Field: field, Message: msg}}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	// Numeric rules (gt, gte) see decimals as float64.
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	mustRegister(v, "notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	mustRegister(v, "unit", func(fl validator.FieldLevel) bool {
		_, err := domain.ParseMeasurementUnit(fl.Field().String())
		return err == nil
	})
	mustRegister(v, "supermarket", func(fl validator.FieldLevel) bool {
		return domain.SupermarketType(fl.Field().Int()).Valid()
	})

	v.RegisterStructValidation(quantityRule, IngredientInput{})
	v.RegisterStructValidation(productPriceRule, CreateProductCommand{}, UpdateProductCommand{})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %q validation: %v", tag, err))
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// Decimal columns are numeric(12,3) for quantities and numeric(12,2) for
// prices. Values must fit without rounding or every driver would store
// something different.
const (
	decimalPrecision = 12
	quantityScale    = 3
	priceScale       = 2
)

// fitsNumeric reports whether d is representable as numeric(precision,scale)
// without rounding.
func fitsNumeric(d decimal.Decimal, precision, scale int32) bool {
	if !d.Truncate(scale).Equal(d) {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, precision-scale))
}

func reportDecimal(sl validator.StructLevel, d decimal.Decimal, field, structField string, scale int32) {
	if !fitsNumeric(d, decimalPrecision, scale) {
		sl.ReportError(d.String(), field, structField, "decimal", fmt.Sprintf("%d,%d", decimalPrecision, scale))
	}
}

func quantityRule(sl validator.StructLevel) {
	in, ok := sl.Current().Interface().(IngredientInput)
	if !ok {
		return
	}
	reportDecimal(sl, in.Quantity, "quantity", "Quantity", quantityScale)
}

// productPriceRule: prices fit their column and a sale price never exceeds
// the regular price.
func productPriceRule(sl validator.StructLevel) {
	var full, current decimal.Decimal
	switch c := sl.Current().Interface().(type) {
	case CreateProductCommand:
		full, current = c.FullPrice, c.CurrentPrice
	case UpdateProductCommand:
		full, current = c.FullPrice, c.CurrentPrice
	default:
		return
	}
	reportDecimal(sl, full, "fullPrice", "FullPrice", priceScale)
	reportDecimal(sl, current, "currentPrice", "CurrentPrice", priceScale)
	if current.GreaterThan(full) {
		sl.ReportError(current, "currentPrice", "CurrentPrice", "ltefullprice", "")
	}
}

func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	out := &ValidationError{Errors: make([]FieldError, 0, len(ves))}
	for _, fe := range ves {
		out.Errors = append(out.Errors, FieldError{
			Field:   fieldPath(fe),
			Message: fieldMessage(fe),
			rule:    fe.Tag(),
		})
	}
	return out
}

// fieldPath drops the leading struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "unit":
		return fmt.Sprintf("%s %q", domain.ErrUnrecognizedUnit, fe.Value())
	case "supermarket":
		return fmt.Sprintf("unknown supermarket %v", fe.Value())
	case "unique":
		if fe.Param() == "Order" {
			return "instruction orders must be unique"
		}
		return "ids must be unique"
	case "excludes":
		return fmt.Sprintf("must not contain %q", fe.Param())
	case "decimal":
		precision, scale, _ := strings.Cut(fe.Param(), ",")
		return fmt.Sprintf("must have at most %s digits, %s after the decimal point", precision, scale)
	case "ltefullprice":
		return "must be less than or equal to fullPrice"
	default:
		return "failed on " + fe.Tag()
	}
}
