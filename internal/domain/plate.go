package domain

import (
	"regexp"
	"strings"
)

// Brazilian vehicle plate shapes. The legacy format allows an optional
// separator between letters and digits; the unified (Mercosul) format is
// always 7 characters with no separator.
var (
	legacyPlate     = regexp.MustCompile(`^[A-Z]{3}[-\s]?[0-9]{4}$`)
	unifiedPlate    = regexp.MustCompile(`^[A-Z]{3}[0-9][A-Z][0-9]{2}$`)
	legacyCompact   = regexp.MustCompile(`^[A-Z]{3}[0-9]{4}$`)
	nonAlphanumeric = regexp.MustCompile(`[^A-Z0-9]`)
)

// IsValidPlate reports whether raw is a valid plate in either the legacy
// (ABC-1234) or unified (ABC1D23) format. Whitespace is stripped and the
// input upper-cased before matching.
func IsValidPlate(raw string) bool {
	if raw == "" {
		return false
	}
	cleaned := strings.ToUpper(strings.Join(strings.Fields(raw), ""))
	return legacyPlate.MatchString(cleaned) || unifiedPlate.MatchString(cleaned)
}

// NormalizePlate returns the canonical form of a plate: upper-cased, with
// a hyphen inserted between letters and digits for legacy plates
// ("abc1234" becomes "ABC-1234"). Unified plates are returned cleaned but
// otherwise unchanged. Input that does not clean to a 7-character plate
// passes through unmodified; this function never fails.
func NormalizePlate(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := nonAlphanumeric.ReplaceAllString(strings.ToUpper(raw), "")
	if len(cleaned) != 7 {
		return raw
	}
	if legacyCompact.MatchString(cleaned) {
		return cleaned[:3] + "-" + cleaned[3:]
	}
	return cleaned
}
