// Package share composes the text handed to the platform share surface.
package share

import (
	"fmt"

	"github.com/garnizeh/badgeclient/internal/validation"
)

// MissingDetails is the notice shown when a share is aborted.
const MissingDetails = "Error: Achievement details missing."

// Compose builds the share message for an earned achievement. The link line
// is appended only when url is non-empty. An empty name or details is a
// validation error and the share must be aborted.
func Compose(name, details string, url *string) (string, error) {
	if name == "" || details == "" {
		var fields []string
		if name == "" {
			fields = append(fields, "name")
		}
		if details == "" {
			fields = append(fields, "details")
		}
		return "", validation.New(MissingDetails, fields...)
	}

	text := fmt.Sprintf("I just earned the '%s' badge in the Digital Badge System! 🎉\n\n%s", name, details)
	if url != nil && *url != "" {
		text += "\n\nCheck it out here: " + *url
	}
	return text, nil
}

// Subject is the share subject line.
func Subject(name string) string {
	return "My Digital Badge Achievement: " + name
}
