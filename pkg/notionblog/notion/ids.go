package notion

import (
	"fmt"

	"github.com/google/uuid"
)

// NormalizeID canonicalizes a page identifier to the dashed UUID form the
// API expects. Public page URLs carry the dashless form.
func NormalizeID(id string) (string, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return "", fmt.Errorf("invalid page id %q: %w", id, err)
	}
	return u.String(), nil
}
