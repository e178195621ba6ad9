package types

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	UUID_PREFIX_SNAPSHOT       = "snap"
	UUID_PREFIX_CHANGE_LOG     = "sclog"
	UUID_PREFIX_WATCHLIST_ITEM = "watch"
	UUID_PREFIX_REQUEST        = "req"
)

// GenerateUUID returns a k-sortable unique identifier
func GenerateUUID() string {
	return strings.ToLower(ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String())
}

// GenerateUUIDWithPrefix returns a k-sortable unique identifier
// with a given prefix ex invoice_0ujsswThIGTUYm2K8FjOOfXtY1K
func GenerateUUIDWithPrefix(prefix string) string {
	if prefix == "" {
		return GenerateUUID()
	}
	return fmt.Sprintf("%s_%s", prefix, GenerateUUID())
}
