package server

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func callAuth(apiKey, header string) int {
	h := authMiddleware(apiKey, okHandler)
	req := httptest.NewRequest(http.MethodPost, "/api/recommend", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w.Code
}

func Test_Auth_DisabledPassesEverything(t *testing.T) {
	t.Parallel()

	if code := callAuth("", ""); code != http.StatusOK {
		t.Errorf("no key configured: want 200, got %d", code)
	}
	if code := callAuth("", "Bearer anything"); code != http.StatusOK {
		t.Errorf("no key configured with header: want 200, got %d", code)
	}
}

func Test_Auth_TokenMatching(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"correct token", "Bearer secret", http.StatusOK},
		{"lowercase scheme", "bearer secret", http.StatusOK},
		{"wrong token", "Bearer nope", http.StatusUnauthorized},
		{"missing header", "", http.StatusUnauthorized},
		{"basic auth scheme", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"scheme without token", "Bearer", http.StatusUnauthorized},
		{"prefix of the key", "Bearer secr", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if code := callAuth("secret", tc.header); code != tc.want {
				t.Errorf("header %q: want %d, got %d", tc.header, tc.want, code)
			}
		})
	}
}

func Test_Auth_ChallengeHeader(t *testing.T) {
	t.Parallel()

	h := authMiddleware("secret", okHandler)
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("want 401, got %d", w.Code)
	}
	if got := w.Header().Get("WWW-Authenticate"); got == "" {
		t.Error("401 must carry a WWW-Authenticate challenge")
	}
}

func Test_BearerToken(t *testing.T) {
	t.Parallel()

	cases := []struct {
		header string
		want   string
		ok     bool
	}{
		{"Bearer mytoken", "mytoken", true},
		{"bearer mytoken", "mytoken", true},
		{"BEARER mytoken", "mytoken", true},
		{"Bearer  spaced ", "spaced", true},
		{"Basic dXNlcjpwYXNz", "", false},
		{"", "", false},
		{"Bearer", "", false},
		{"Bearer ", "", false},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		got, ok := bearerToken(req)
		if got != tc.want || ok != tc.ok {
			t.Errorf("bearerToken(%q) = (%q, %v), want (%q, %v)", tc.header, got, ok, tc.want, tc.ok)
		}
	}
}
