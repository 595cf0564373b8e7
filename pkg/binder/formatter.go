package binder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/segmentio/encoding/json"
)

const (
	dive      = "dive"
	mx        = "max"
	mn        = "min"
	oneof     = "oneof"
	remoteurl = "remoteurl"
	required  = "required"
	slugable  = "slugable"
)

func formatUnknownField(field string) string {
	return fmt.Sprintf("unknown field %q", field)
}

func formatUnmarshalTypeError(err *json.UnmarshalTypeError) string {
	return fmt.Sprintf("%q should be of type %s", strings.Trim(err.Field, "."), err.Type)
}

func formatSyntaxError(err *json.SyntaxError) string {
	return fmt.Sprintf("invalid JSON at offset %d: %s", err.Offset, err.Error())
}

func formatValidationError(err validator.FieldError) string {
	field := err.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}

	switch err.Tag() {
	case mx, mn:
		word := "at most"
		if err.Tag() == mn {
			word = "at least"
		}
		//exhaustive:ignore
		switch err.Kind() {
		case reflect.Slice, reflect.Map:
			resource := "element"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q must have %s %s %s", field, word, err.Param(), resource)
		case reflect.String:
			resource := "character"
			if err.Param() != "1" {
				resource += "s"
			}
			return fmt.Sprintf("%q length must be %s %s %s", field, word, err.Param(), resource)
		default:
			return fmt.Sprintf("%q must be %s %s", field, word, err.Param())
		}
	case oneof:
		valids := []string{}
		for _, p := range strings.Fields(err.Param()) {
			valids = append(valids, fmt.Sprintf("%q", p))
		}
		return fmt.Sprintf("%q must be one of the following: %s", field, strings.Join(valids, ", "))
	case remoteurl:
		return fmt.Sprintf("%q must be an absolute http(s) URL", field)
	case required:
		return fmt.Sprintf("%q is required", field)
	case slugable:
		return fmt.Sprintf("%q must contain at least one letter or digit", field)
	case dive:
		return fmt.Sprintf("%q is invalid", field)
	default:
		return fmt.Sprintf("%q failed the %q check", field, err.Tag())
	}
}
