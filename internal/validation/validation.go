// Package validation trims and validates decoded request bodies.
package validation

import (
	"errors"
	"reflect"
	"strings"

	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/sport-matcher/internal/dto"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return fld.Name
		}
		return name
	})
	v.RegisterCustomTypeFunc(nullableValue,
		dto.Nullable[string]{},
		dto.Nullable[int]{},
		dto.Nullable[uint]{},
	)
	return v
}

func nullableValue(field reflect.Value) interface{} {
	if n, ok := field.Interface().(interface{ Validatable() any }); ok {
		return n.Validatable()
	}
	return nil
}

// Struct trims every string field of s and validates it against its
// `validate` tags. Failures come back as VALIDATION_ERROR with a
// field -> reason map in Details.
func Struct(s any) error {
	Trim(s)
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperr.ErrValidation.WithDetails(fieldErrors(verrs))
	}
	return err
}

func fieldErrors(verrs validator.ValidationErrors) map[string]string {
	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fieldPath(fe.Namespace())] = describe(fe)
	}
	return details
}

// fieldPath drops the struct name from a namespace like
// "UserSportsRequest.sports[0].level".
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "hexadecimal":
		return "must be hexadecimal"
	}
	return "is invalid"
}

type trimmer interface{ TrimSpace() }

// Trim removes surrounding whitespace from strings reachable from v.
// Fields tagged `trim:"false"` are left untouched.
func Trim(v any) {
	trimValue(reflect.ValueOf(v))
}

func trimValue(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr:
		if !v.IsNil() {
			trimValue(v.Elem())
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			sf := t.Field(i)
			if !sf.IsExported() || sf.Tag.Get("trim") == "false" {
				continue
			}
			f := v.Field(i)
			if f.CanAddr() {
				if tr, ok := f.Addr().Interface().(trimmer); ok {
					tr.TrimSpace()
					continue
				}
			}
			trimValue(f)
		}
	case reflect.Slice:
		for i := 0; i < v.Len(); i++ {
			trimValue(v.Index(i))
		}
	case reflect.String:
		if v.CanSet() {
			v.SetString(strings.TrimSpace(v.String()))
		}
	}
}
