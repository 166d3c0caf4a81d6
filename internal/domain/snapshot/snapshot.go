package snapshot

import (
	"strings"
	"time"
)

// credentialMarkers are the case-insensitive cookie-name substrings that mark
// a cookie as credential-bearing.
var credentialMarkers = []string{"token", "session", "merchant", "olympus"}

// Cookie is one browser cookie captured from an authenticated page.
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"` // seconds since epoch, -1 when session-scoped
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// IsCredential reports whether the cookie name matches a credential marker.
func (c Cookie) IsCredential() bool {
	name := strings.ToLower(c.Name)
	for _, marker := range credentialMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}

// Token is the name/value pair of a credential-bearing cookie.
type Token struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// StorageBlob is the page storage captured alongside cookies.
type StorageBlob struct {
	Local      map[string]string `json:"localStorage"`
	Session    map[string]string `json:"sessionStorage"`
	LoginCheck *string           `json:"loginCheck,omitempty"`
}

// Snapshot is the serialized authenticated browser state for one account.
// At most one snapshot exists per account; a new login overwrites the prior one.
type Snapshot struct {
	AccountID     string            `json:"accountId"`
	Cookies       []Cookie          `json:"cookies"`
	CookieHeader  string            `json:"cookieHeader"`
	DerivedTokens []Token           `json:"derivedTokens"`
	Storage       *StorageBlob      `json:"storage,omitempty"`
	LoginCheck    *string           `json:"loginCheck,omitempty"`
	AuthType      *string           `json:"authType,omitempty"`
	URL           string            `json:"url"`
	PageTitle     string            `json:"pageTitle"`
	IsLoggedIn    bool              `json:"isLoggedIn"`
	ExpiresAt     time.Time         `json:"expiresAt"`
	Headers       map[string]string `json:"headers"`
	LastUsed      time.Time         `json:"lastUsed"`
}

// FormatCookieHeader joins cookies into a single Cookie header value.
func FormatCookieHeader(cookies []Cookie) string {
	parts := make([]string, 0, len(cookies))
	for _, c := range cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// DeriveTokens extracts the credential-bearing cookies in order.
func DeriveTokens(cookies []Cookie) []Token {
	tokens := []Token{}
	for _, c := range cookies {
		if c.IsCredential() {
			tokens = append(tokens, Token{Name: c.Name, Value: c.Value})
		}
	}
	return tokens
}

// Restorable reports whether the snapshot may be offered for a driver-level
// restore: its age since LastUsed is within the freshness window and it holds
// at least one credential-bearing cookie. ExpiresAt is advisory only.
func (s *Snapshot) Restorable(now time.Time, window time.Duration) bool {
	if len(s.DerivedTokens) == 0 {
		return false
	}
	return now.Sub(s.LastUsed) <= window
}

// AgeHours returns the age of the snapshot since last use, in hours.
func (s *Snapshot) AgeHours(now time.Time) float64 {
	return now.Sub(s.LastUsed).Hours()
}
