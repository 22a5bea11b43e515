package utils

import (
	"regexp"
	"strings"
)

const (
	whatsAppBase       = "https://wa.me/"
	defaultCountryCode = "549"
)

var (
	phoneNoise  = regexp.MustCompile(`[\s\-()]`)
	phoneDigits = regexp.MustCompile(`^\d{10,15}$`)
)

// NormalizeWhatsAppURL turns a bare phone number into a wa.me deep link,
// adds the scheme to "wa.me/…" links and leaves anything else untouched.
func NormalizeWhatsAppURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	number := phoneNoise.ReplaceAllString(raw, "")
	if phoneDigits.MatchString(number) {
		if !strings.HasPrefix(number, defaultCountryCode) {
			number = defaultCountryCode + number
		}
		return whatsAppBase + number
	}

	if strings.HasPrefix(raw, "wa.me/") {
		return "https://" + raw
	}
	return raw
}

// IsWhatsAppURL reports whether url is a wa.me link.
func IsWhatsAppURL(url string) bool {
	return strings.HasPrefix(url, whatsAppBase) || strings.HasPrefix(url, "http://wa.me/")
}
