package auth

import (
	"net/url"
	"strings"
)

const (
	HomePath  = "/"
	AdminPath = "/admin"
	LoginPath = "/login"

	CallbackParam = "callbackUrl"
)

// Page describes what a route expects of the caller's session. Pages that do
// not require auth are only for signed-out users (the login page).
type Page struct {
	RequiresAuth bool
}

var (
	AdminPage = Page{RequiresAuth: true}
	LoginPage = Page{RequiresAuth: false}
)

// Decision is the guard's verdict. An empty Redirect means render the page.
type Decision struct {
	Redirect string
}

func (d Decision) Render() bool { return d.Redirect == "" }

// Decide applies the session rules for page. requestURI is where the caller
// was headed; it becomes the login callback for protected pages.
func Decide(page Page, authenticated bool, requestURI string) Decision {
	switch {
	case page.RequiresAuth && !authenticated:
		return Decision{Redirect: LoginURL(requestURI)}
	case !page.RequiresAuth && authenticated:
		return Decision{Redirect: AdminPath}
	default:
		return Decision{}
	}
}

func LoginURL(callback string) string {
	if callback == "" {
		return LoginPath
	}
	return LoginPath + "?" + url.Values{CallbackParam: {callback}}.Encode()
}

// SafeRedirect returns target when it is a path on this site and fallback
// otherwise.
func SafeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") {
		return fallback
	}
	if strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" {
		return fallback
	}
	return target
}
