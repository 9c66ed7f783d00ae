package notion

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var hexID = regexp.MustCompile(`[0-9a-fA-F]{32}$`)

// ParseID normalizes a page or database reference to the dashed id form.
// It accepts dashed and undashed ids as well as workspace URLs, whose last
// path segment ends with the undashed id.
func ParseID(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if id, err := uuid.Parse(ref); err == nil {
		return id.String(), nil
	}

	candidate := ref
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		candidate = u.Path
		if i := strings.LastIndex(candidate, "/"); i >= 0 {
			candidate = candidate[i+1:]
		}
	}
	candidate = strings.ReplaceAll(candidate, "-", "")

	match := hexID.FindString(candidate)
	if match == "" {
		return "", fmt.Errorf("invalid notion id: %q", ref)
	}
	id, err := uuid.Parse(match)
	if err != nil {
		return "", fmt.Errorf("invalid notion id: %q: %w", ref, err)
	}
	return id.String(), nil
}
