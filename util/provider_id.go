package util

import "strings"

// Middleware and router references coming back from the proxy may carry a
// provider suffix ("my-auth@file", "api@docker"). Stored entities never do,
// so references are normalized before lookup.

// StripProviderSuffix removes the @provider suffix from an ID, if present.
func StripProviderSuffix(id string) string {
	if idx := strings.Index(id, "@"); idx > 0 {
		return id[:idx]
	}
	return id
}

// ProviderSuffix extracts the @provider suffix from an ID, or "".
func ProviderSuffix(id string) string {
	if idx := strings.Index(id, "@"); idx > 0 {
		return id[idx:]
	}
	return ""
}

// AddProviderSuffix adds a provider suffix if one doesn't exist.
// If the ID already has a suffix, it returns the original ID.
func AddProviderSuffix(id string, suffix string) string {
	if suffix == "" || strings.Contains(id, "@") {
		return id
	}

	if !strings.HasPrefix(suffix, "@") {
		suffix = "@" + suffix
	}

	return id + suffix
}
