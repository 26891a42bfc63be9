package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecide(t *testing.T) {
	tests := []struct {
		name          string
		page          Page
		authenticated bool
		uri           string
		want          Decision
	}{
		{"admin without session", AdminPage, false, "/admin", Decision{Redirect: "/login?callbackUrl=%2Fadmin"}},
		{"admin subpath without session", AdminPage, false, "/admin/analyze?x=1", Decision{Redirect: "/login?callbackUrl=%2Fadmin%2Fanalyze%3Fx%3D1"}},
		{"admin without session or origin", AdminPage, false, "", Decision{Redirect: "/login"}},
		{"admin with session", AdminPage, true, "/admin", Decision{}},
		{"login with session", LoginPage, true, "/login", Decision{Redirect: "/admin"}},
		{"login with session and callback", LoginPage, true, "/login?callbackUrl=%2Felsewhere", Decision{Redirect: "/admin"}},
		{"login without session", LoginPage, false, "/login", Decision{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.page, tt.authenticated, tt.uri)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.want.Redirect == "", got.Render())
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                          "/admin",
		"/admin":                    "/admin",
		"/admin/analyze?rubric=x":   "/admin/analyze?rubric=x",
		"admin":                     "/admin",
		"//evil.example.com":        "/admin",
		"/\\evil.example.com":       "/admin",
		"https://evil.example.com/": "/admin",
		"javascript:alert(1)":       "/admin",
	}
	for in, want := range tests {
		assert.Equal(t, want, SafeRedirect(in, "/admin"), "input %q", in)
	}
}
