package shared

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a short prefixed identifier such as "CUST-3F2A91BC".
// The suffix is the first eight hex characters of a random UUID, uppercased.
func NewID(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
