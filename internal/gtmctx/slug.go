package gtmctx

import (
	"errors"
	"regexp"
)

var (
	// ErrSlugEmpty is returned when a tenant slug is empty.
	ErrSlugEmpty = errors.New("tenant slug must not be empty")

	// ErrSlugFormat is returned when a tenant slug does not match the
	// required pattern.
	ErrSlugFormat = errors.New("tenant slug must contain only lowercase alphanumeric characters, hyphens and underscores, and must not start or end with a separator")

	slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9_\-]*[a-z0-9])?$`)
)

// ValidateSlug checks that slug has the shape of a tenant slug. It does not
// check that the tenant exists.
func ValidateSlug(slug string) error {
	if slug == "" {
		return ErrSlugEmpty
	}
	if !slugPattern.MatchString(slug) {
		return ErrSlugFormat
	}
	return nil
}
