package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func Test_SanitiseKey(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"secret with value", "OPENAI_API_KEY", "sk-abc123", "set"},
		{"secret without value", "OPENAI_API_KEY", "", "unset"},
		{"qdrant secret", "QDRANT_API_KEY", "qk-xyz", "set"},
		{"non-secret with value", "MODEL_PROVIDER", "gemini", "gemini"},
		{"non-secret without value", "MODEL_PROVIDER", "", "unset"},
		{"unknown key passes through", "SOME_RANDOM_VAR", "hello", "hello"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SanitiseKey(tc.key, tc.value); got != tc.want {
				t.Errorf("SanitiseKey(%q, %q) = %q, want %q", tc.key, tc.value, got, tc.want)
			}
		})
	}
}

func Test_SecretKeysNeverLeak(t *testing.T) {
	// Every variable flagged secret in the audit table must sanitise to
	// presence/absence, whatever its value.
	for _, v := range auditedVars {
		if !v.secret {
			continue
		}
		if got := SanitiseKey(v.key, "super-secret-value"); got != "set" {
			t.Errorf("%s: secret value leaked as %q", v.key, got)
		}
	}
}

func Test_DescribeConfigPath(t *testing.T) {
	if got := describeConfigPath(""); got != "none" {
		t.Errorf("empty path: want none, got %q", got)
	}

	if got := describeConfigPath("/etc/souschef/config.yaml"); got != "/etc/souschef/config.yaml" {
		t.Errorf("non-home path must pass through, got %q", got)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	in := filepath.Join(home, ".souschef", "config.yaml")
	want := "~" + string(filepath.Separator) + filepath.Join(".souschef", "config.yaml")
	if got := describeConfigPath(in); got != want {
		t.Errorf("home path: want %q, got %q", want, got)
	}
}
