// Package auth implements the access-key gate: a plaintext key file, a
// membership test against it, and a generator for new keys.
package auth

import (
	"bufio"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"
)

const keyAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// ValidateKey reports whether candidate matches one of the key file's
// non-comment, non-blank lines, compared after trimming. A missing key file
// is an error: the gate cannot silently admit everyone.
func ValidateKey(path, candidate string) (bool, error) {
	keys, err := loadKeys(path)
	if err != nil {
		return false, err
	}
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false, nil
	}
	_, ok := keys[candidate]
	return ok, nil
}

func loadKeys(path string) (map[string]struct{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open key file: %w", err)
	}
	defer f.Close()

	keys := map[string]struct{}{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		keys[line] = struct{}{}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read key file: %w", err)
	}
	return keys, nil
}

// GenerateKey returns a random 16-character key formatted in blocks of
// four, e.g. "K3QM-0F7A-XXZ1-P9RD".
func GenerateKey() (string, error) {
	raw := make([]byte, 16)
	max := big.NewInt(int64(len(keyAlphabet)))
	for i := range raw {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("generate key: %w", err)
		}
		raw[i] = keyAlphabet[n.Int64()]
	}
	var b strings.Builder
	for i := 0; i < len(raw); i += 4 {
		if i > 0 {
			b.WriteByte('-')
		}
		b.Write(raw[i : i+4])
	}
	return b.String(), nil
}

// AppendKeys adds keys to the key file, one per line, creating it when
// absent.
func AppendKeys(path string, keys []string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open key file: %w", err)
	}
	for _, k := range keys {
		if _, err := fmt.Fprintln(f, k); err != nil {
			f.Close()
			return fmt.Errorf("append key: %w", err)
		}
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close key file: %w", err)
	}
	return nil
}
