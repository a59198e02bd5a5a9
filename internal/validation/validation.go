// Package validation wraps go-playground/validator with field names taken from
// JSON tags, so reported fields match what clients send.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	v10 "github.com/go-playground/validator/v10"
)

var (
	once sync.Once
	v    *v10.Validate
)

// New returns the shared validator instance.
func New() *v10.Validate {
	once.Do(func() {
		v = v10.New(v10.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonFieldName)
	})
	return v
}

// Struct validates s and flattens failures into a map keyed by JSON path,
// e.g. "length" or "websites[0].email". Both return values are nil on success.
func Struct(s any) (map[string]string, error) {
	err := New().Struct(s)
	if err == nil {
		return nil, nil
	}
	var ve v10.ValidationErrors
	if !errors.As(err, &ve) {
		return map[string]string{"_": err.Error()}, err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fieldPath(fe.Namespace())] = message(fe)
	}
	return fields, err
}

func jsonFieldName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func message(fe v10.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "url":
		return "must be a valid URL"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return fe.Error()
	}
}
