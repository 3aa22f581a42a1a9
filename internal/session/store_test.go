package session

import (
	"strings"
	"testing"
)

func TestCookieHeaderRoundTrip(t *testing.T) {
	cookies := []Cookie{
		{Name: "LEETCODE_SESSION", Value: "abc123"},
		{Name: "csrftoken", Value: "tok"},
		{Name: "other", Value: "x=y"},
	}
	store := NewStore()
	store.Replace(cookies, "")

	header := store.CookieHeader()
	parts := strings.Split(header, "; ")
	if len(parts) != len(cookies) {
		t.Fatalf("got %d cookie parts, want %d", len(parts), len(cookies))
	}
	for i, part := range parts {
		eq := strings.Index(part, "=")
		if eq < 0 {
			t.Fatalf("part %q has no separator", part)
		}
		name, value := part[:eq], part[eq+1:]
		if name != cookies[i].Name || value != cookies[i].Value {
			t.Errorf("part %d: got %s=%s, want %s=%s", i, name, value, cookies[i].Name, cookies[i].Value)
		}
	}
}

func TestCookieHeaderEmpty(t *testing.T) {
	store := NewStore()
	if got := store.CookieHeader(); got != "" {
		t.Errorf("empty store cookie header: got %q, want empty", got)
	}
}

func TestIsAuthenticated(t *testing.T) {
	tests := []struct {
		name    string
		cookies []Cookie
		want    bool
	}{
		{"empty", nil, false},
		{"unrelated cookie only", []Cookie{{Name: "theme", Value: "dark"}}, false},
		{"session cookie empty value", []Cookie{{Name: SessionCookieName, Value: ""}}, false},
		{"session cookie present", []Cookie{{Name: SessionCookieName, Value: "v"}}, true},
		{"session cookie among others", []Cookie{
			{Name: "theme", Value: "dark"},
			{Name: SessionCookieName, Value: "v"},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewStore()
			store.Replace(tt.cookies, "")
			if got := store.IsAuthenticated(); got != tt.want {
				t.Errorf("IsAuthenticated() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReplaceDerivesCSRFFromCookie(t *testing.T) {
	store := NewStore()
	store.Replace([]Cookie{{Name: CSRFCookieName, Value: "derived"}}, "")
	if got := store.CSRFToken(); got != "derived" {
		t.Errorf("CSRFToken() = %q, want %q", got, "derived")
	}

	store.Replace([]Cookie{{Name: CSRFCookieName, Value: "derived"}}, "explicit")
	if got := store.CSRFToken(); got != "explicit" {
		t.Errorf("explicit token should win: got %q", got)
	}
}

func TestClear(t *testing.T) {
	store := NewStore()
	store.Replace([]Cookie{{Name: SessionCookieName, Value: "v"}}, "tok")
	store.Clear()
	if store.IsAuthenticated() {
		t.Error("store still authenticated after Clear")
	}
	if store.CookieHeader() != "" || store.CSRFToken() != "" {
		t.Error("store not empty after Clear")
	}
}

func TestParseCookieHeader(t *testing.T) {
	cookies := ParseCookieHeader("a=1; b=2;  c=x=y; malformed; =nameless")
	want := []Cookie{{Name: "a", Value: "1"}, {Name: "b", Value: "2"}, {Name: "c", Value: "x=y"}}
	if len(cookies) != len(want) {
		t.Fatalf("got %d cookies, want %d: %v", len(cookies), len(want), cookies)
	}
	for i := range want {
		if cookies[i] != want[i] {
			t.Errorf("cookie %d: got %+v, want %+v", i, cookies[i], want[i])
		}
	}
}
