package emby

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	ticksPerMillisecond = 10_000
	ticksPerSecond      = 10_000_000
)

// formatTicks renders a duration in Emby ticks (100ns) as hh:mm:ss.
// Zero and negative values render as "".
func formatTicks(ticks int64) string {
	if ticks <= 0 {
		return ""
	}
	return formatSeconds(ticks / ticksPerSecond)
}

func formatSeconds(total int64) string {
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

func ticksToMillis(ticks int64) int64 {
	return ticks / ticksPerMillisecond
}

// foldText lowers case and strips accents so "Beyoncé" matches "beyonce".
func foldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

func containsFolded(haystack, needle string) bool {
	if haystack == "" {
		return false
	}
	return strings.Contains(foldText(haystack), foldText(needle))
}

func equalFolded(a, b string) bool {
	return foldText(a) == foldText(b)
}

func isLoopback(addr string) bool {
	return addr == "::1" || addr == "127.0.0.1"
}
