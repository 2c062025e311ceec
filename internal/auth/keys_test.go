package auth

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeKeyFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "access_keys.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestValidateKey(t *testing.T) {
	path := writeKeyFile(t, "AAAA-BBBB\n# comment\nCCCC-DDDD\n\n")

	cases := []struct {
		candidate string
		want      bool
	}{
		{"AAAA-BBBB", true},
		{"CCCC-DDDD", true},
		{"  AAAA-BBBB  ", true}, // trimmed before comparison
		{"# comment", false},
		{"", false},
		{"EEEE-FFFF", false},
	}
	for _, tc := range cases {
		got, err := ValidateKey(path, tc.candidate)
		if err != nil {
			t.Fatalf("ValidateKey(%q): %v", tc.candidate, err)
		}
		if got != tc.want {
			t.Errorf("ValidateKey(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestValidateKeyMissingFile(t *testing.T) {
	if _, err := ValidateKey(filepath.Join(t.TempDir(), "nope.txt"), "AAAA"); err == nil {
		t.Fatal("expected error for missing key file")
	}
}

func TestGenerateKeyFormat(t *testing.T) {
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		k, err := GenerateKey()
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		parts := strings.Split(k, "-")
		if len(parts) != 4 {
			t.Fatalf("bad format: %q", k)
		}
		for _, p := range parts {
			if len(p) != 4 {
				t.Fatalf("bad block in %q", k)
			}
			for _, r := range p {
				if !strings.ContainsRune(keyAlphabet, r) {
					t.Fatalf("bad character %q in %q", r, k)
				}
			}
		}
		seen[k] = struct{}{}
	}
	if len(seen) < 45 {
		t.Fatalf("suspiciously many duplicates: %d unique of 50", len(seen))
	}
}

func TestAppendKeysThenValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "access_keys.txt")
	if err := AppendKeys(path, []string{"AAAA-BBBB-CCCC-DDDD"}); err != nil {
		t.Fatalf("append: %v", err)
	}
	ok, err := ValidateKey(path, "AAAA-BBBB-CCCC-DDDD")
	if err != nil || !ok {
		t.Fatalf("expected appended key to validate, ok=%v err=%v", ok, err)
	}
}
