package browser

import (
	"regexp"
	"strings"
)

// API keys render as 32 to 40 hex characters.
var credentialPattern = regexp.MustCompile(`(?i)\b[a-f0-9]{32,40}\b`)

// extractionStrategies scrape the key dialog in order of precision:
// dedicated copy widgets first, then the whole page text as a fallback.
var extractionStrategies = []struct {
	name string
	js   string
}{
	{
		name: "copy-widgets",
		js: `(() => {
			const sels = ['input[readonly]', 'textarea[readonly]', 'code', 'pre', '[data-clipboard-text]'];
			const parts = [];
			for (const sel of sels) {
				for (const el of document.querySelectorAll(sel)) {
					parts.push(el.value || el.getAttribute('data-clipboard-text') || el.textContent || '');
				}
			}
			return parts.join('\n');
		})()`,
	},
	{
		name: "exact-elements",
		js: `(() => {
			const parts = [];
			for (const el of document.querySelectorAll('input, span, div')) {
				const text = (el.value || el.textContent || '').trim();
				if (/^[a-f0-9]{32,40}$/i.test(text)) parts.push(text);
			}
			return parts.join('\n');
		})()`,
	},
	{
		name: "page-text",
		js:   `document.body.innerText`,
	},
}

// FindCredentialToken returns the first hex token of credential length
// in the blob, lowercased, or "" when none is present.
func FindCredentialToken(blob string) string {
	return strings.ToLower(credentialPattern.FindString(blob))
}
