package creds

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	defaults := Credentials{
		BaseURL:    "https://d.test",
		AnonKey:    "D",
		ServiceKey: "DS",
	}

	tests := []struct {
		name    string
		headers map[string]string
		want    Credentials
	}{
		{
			name:    "no overrides uses defaults exactly",
			headers: nil,
			want:    defaults,
		},
		{
			name: "override url and anon key",
			headers: map[string]string{
				HeaderURL:     "https://x.test/",
				HeaderAnonKey: "K",
			},
			want: Credentials{BaseURL: "https://x.test", AnonKey: "K", ServiceKey: "DS"},
		},
		{
			name: "each field overridden independently",
			headers: map[string]string{
				HeaderServiceKey: "S",
			},
			want: Credentials{BaseURL: "https://d.test", AnonKey: "D", ServiceKey: "S"},
		},
		{
			name: "empty override falls back to default",
			headers: map[string]string{
				HeaderURL:     "",
				HeaderAnonKey: "   ",
			},
			want: defaults,
		},
		{
			name: "multiple trailing slashes stripped",
			headers: map[string]string{
				HeaderURL: "https://x.test///",
			},
			want: Credentials{BaseURL: "https://x.test", AnonKey: "D", ServiceKey: "DS"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := http.Header{}
			for k, v := range tt.headers {
				h.Set(k, v)
			}
			got := Resolve(h, defaults)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveAllAbsent(t *testing.T) {
	// Resolution never errors, even with nothing configured. Absence
	// only matters at the point of use.
	got := Resolve(http.Header{}, Credentials{})
	assert.Equal(t, Credentials{}, got)
	assert.False(t, got.HasAnonConfig())
	assert.False(t, got.HasServiceKey())
}

func TestResolveDefaultTrailingSlash(t *testing.T) {
	got := Resolve(http.Header{}, Credentials{BaseURL: "https://d.test/", AnonKey: "D"})
	assert.Equal(t, "https://d.test", got.BaseURL)
}

func TestHasServiceKey(t *testing.T) {
	assert.False(t, Credentials{}.HasServiceKey())
	assert.True(t, Credentials{ServiceKey: "k"}.HasServiceKey())
}

func TestHasAnonConfig(t *testing.T) {
	assert.False(t, Credentials{BaseURL: "https://d.test"}.HasAnonConfig())
	assert.False(t, Credentials{AnonKey: "D"}.HasAnonConfig())
	assert.True(t, Credentials{BaseURL: "https://d.test", AnonKey: "D"}.HasAnonConfig())
}
