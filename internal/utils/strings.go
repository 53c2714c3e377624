// Package utils provides common utility functions.
package utils

// MaskKey masks a credential for safe logging (first 6 and last 4 chars).
// Supabase keys are long JWTs; anything shorter is fully masked.
func MaskKey(key string) string {
	if key == "" {
		return "(unset)"
	}
	if len(key) < 16 {
		return "****"
	}
	return key[:6] + "..." + key[len(key)-4:]
}
