package util

import (
	"strings"
)

const handleSuffix = "-ai-agent-demo"

// DeriveBotHandle turns a company name into the handle of its demo
// instance: lowercase, strip everything outside [a-z0-9-], append the
// fixed suffix. Pure and idempotent on its input.
func DeriveBotHandle(companyName string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(companyName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String() + handleSuffix
}

// InferWebsiteUrl guesses a company website when none was supplied.
func InferWebsiteUrl(companyName string) string {
	slug := strings.ToLower(companyName)
	slug = strings.ReplaceAll(slug, " ", "")
	slug = strings.ReplaceAll(slug, "'", "")
	return "https://" + slug + ".com"
}
