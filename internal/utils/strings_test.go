package utils

import "testing"

func TestMaskKey(t *testing.T) {
	long := "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9"

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", "(unset)"},
		{"too short to partially show", "short", "****"},
		{"long key shows edges only", long, long[:6] + "..." + long[len(long)-4:]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MaskKey(tt.in); got != tt.want {
				t.Errorf("MaskKey(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
