package binder

import (
	"net/url"

	"github.com/Cyberdude00/aura-scouting-web/pkg/identifiers"
	"github.com/go-playground/validator/v10"
)

// remoteURLValidator accepts the empty string (an item that hasn't been
// uploaded yet) or an absolute http(s) URL.
func remoteURLValidator(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if value == "" {
		return true
	}
	u, err := url.Parse(value)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// slugableValidator ensures a display name produces a non-empty slug, since
// the slug is the join key for every reconciliation step.
func slugableValidator(fl validator.FieldLevel) bool {
	return identifiers.Slugify(fl.Field().String()) != ""
}
