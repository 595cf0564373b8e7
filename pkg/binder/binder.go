package binder

import (
	"bytes"
	"context"
	"reflect"
	"regexp"
	"strings"

	"github.com/Cyberdude00/aura-scouting-web/pkg/errcodes"
	"github.com/creasty/defaults"
	"github.com/go-playground/mold/v4"
	"github.com/go-playground/mold/v4/modifiers"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/segmentio/encoding/json"
)

var unknownFieldsRE = regexp.MustCompile(`unknown field "(.*)"`)

// Binder decodes JSON documents into structs, uses mold to clean up the
// values, fills defaults and validates the result.
type Binder struct {
	conform  *mold.Transformer
	validate *validator.Validate
}

// Options tweak a single Bind call.
type Options struct {
	// DisallowUnknownFields rejects documents carrying keys the struct doesn't
	// declare.
	DisallowUnknownFields bool
}

// New initializes a new Binder instance with the appropriate validation
// functions registered.
func New() (*Binder, error) {
	conform := modifiers.New()
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "koanf"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})
	if err := validate.RegisterValidation("remoteurl", remoteURLValidator); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := validate.RegisterValidation("slugable", slugableValidator); err != nil {
		return nil, errors.WithStack(err)
	}

	return &Binder{conform, validate}, nil
}

// Bind decodes data into i and then runs Struct on it.
func (b *Binder) Bind(ctx context.Context, data []byte, i interface{}, opts Options) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return errcodes.ValidationError("document can't be empty")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if opts.DisallowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(i); err != nil {
		if matches := unknownFieldsRE.FindStringSubmatch(err.Error()); len(matches) > 1 {
			return errcodes.ValidationError(formatUnknownField(matches[1]))
		}

		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return errcodes.ValidationError(formatUnmarshalTypeError(typeErr))
		}

		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return errcodes.ValidationError(formatSyntaxError(syntaxErr))
		}

		return errors.WithStack(err)
	}

	return b.Struct(ctx, i)
}

// Struct conforms, defaults and validates an already populated struct.
func (b *Binder) Struct(ctx context.Context, i interface{}) error {
	if err := b.conform.Struct(ctx, i); err != nil {
		return errors.WithStack(err)
	}

	if err := defaults.Set(i); err != nil {
		return errors.WithStack(err)
	}

	if err := b.validate.Struct(i); err != nil {
		var errs validator.ValidationErrors
		if !errors.As(err, &errs) || len(errs) == 0 {
			return errors.WithStack(err)
		}
		return errcodes.ValidationError(formatValidationError(errs[0]))
	}
	return nil
}
