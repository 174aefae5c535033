package utils

import (
	"math/rand"
	"strings"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateID returns a short random identifier, used for ball ids.
func GenerateID(length int) string {
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(idAlphabet[rand.Intn(len(idAlphabet))])
	}
	return sb.String()
}

// SanitizeName trims a display name, truncates it to maxLen and falls back
// to the given default when nothing usable remains.
func SanitizeName(name string, maxLen int, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	runes := []rune(name)
	if len(runes) > maxLen {
		return string(runes[:maxLen])
	}
	return name
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
