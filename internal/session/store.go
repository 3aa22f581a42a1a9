// Package session holds the browser session used to authorize judge requests.
package session

import (
	"strings"
	"sync/atomic"
)

// SessionCookieName is the cookie the judge issues for a signed-in session.
const SessionCookieName = "LEETCODE_SESSION"

// CSRFCookieName is the cookie carrying the anti-forgery token.
const CSRFCookieName = "csrftoken"

// Cookie is a single name/value pair, order-preserving within a snapshot.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type snapshot struct {
	cookies   []Cookie
	csrfToken string
}

// Store holds one immutable session snapshot. Replace swaps the whole
// snapshot in a single pointer assignment, so concurrent readers always see
// either the old or the new cookie/token pair, never a partial update.
type Store struct {
	current atomic.Pointer[snapshot]
}

// NewStore creates an empty session store.
func NewStore() *Store {
	s := &Store{}
	s.current.Store(&snapshot{})
	return s
}

// Replace atomically overwrites the cookie set and anti-forgery token.
// An empty token falls back to the csrftoken cookie value when present.
func (s *Store) Replace(cookies []Cookie, csrfToken string) {
	snap := &snapshot{
		cookies:   append([]Cookie(nil), cookies...),
		csrfToken: csrfToken,
	}
	if snap.csrfToken == "" {
		for _, c := range snap.cookies {
			if c.Name == CSRFCookieName {
				snap.csrfToken = c.Value
				break
			}
		}
	}
	s.current.Store(snap)
}

// Clear drops the session entirely, used by logout and remote expiry.
func (s *Store) Clear() {
	s.current.Store(&snapshot{})
}

// CookieHeader joins all cookies as "name=value; name2=value2".
// Returns the empty string when no cookies are held.
func (s *Store) CookieHeader() string {
	snap := s.current.Load()
	if len(snap.cookies) == 0 {
		return ""
	}
	parts := make([]string, 0, len(snap.cookies))
	for _, c := range snap.cookies {
		parts = append(parts, c.Name+"="+c.Value)
	}
	return strings.Join(parts, "; ")
}

// CSRFToken returns the anti-forgery token, or "" when absent.
func (s *Store) CSRFToken() string {
	return s.current.Load().csrfToken
}

// Cookies returns a copy of the current cookie snapshot.
func (s *Store) Cookies() []Cookie {
	snap := s.current.Load()
	return append([]Cookie(nil), snap.cookies...)
}

// IsAuthenticated reports whether the session cookie is present with a
// non-empty value. Absence of data is never an error here.
func (s *Store) IsAuthenticated() bool {
	snap := s.current.Load()
	for _, c := range snap.cookies {
		if c.Name == SessionCookieName && c.Value != "" {
			return true
		}
	}
	return false
}

// ParseCookieHeader splits a pasted browser "Cookie" header into pairs.
// Malformed fragments without "=" are skipped rather than rejected.
func ParseCookieHeader(header string) []Cookie {
	var cookies []Cookie
	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		eq := strings.Index(part, "=")
		if eq <= 0 {
			continue
		}
		cookies = append(cookies, Cookie{
			Name:  part[:eq],
			Value: part[eq+1:],
		})
	}
	return cookies
}
