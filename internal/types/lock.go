package types

import (
	"fmt"
	"sort"
	"strings"
)

// LockScope represents the scope of an advisory lock
type LockScope string

const (
	// LockScopeSubscription serializes quota and plan mutations per user
	LockScopeSubscription LockScope = "subscription"
)

// GenerateLockKey generates a deterministic lock key from a scope and
// parameters. Params are sorted so the same inputs always yield the same key.
func GenerateLockKey(scope LockScope, params map[string]interface{}) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	// Build string in format: scope:key1=value1:key2=value2:...
	var b strings.Builder
	b.WriteString(string(scope))
	for _, k := range keys {
		b.WriteString(fmt.Sprintf(":%s=%v", k, params[k]))
	}

	return b.String()
}
