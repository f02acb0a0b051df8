package cryptox

import (
	"crypto/rand"
	"encoding/base64"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

var (
	pepperOnce sync.Once
	pepper     string
	pepperFile string
)

// SetPepperPath configures where the password pepper lives. Must be
// called before the first hash/verify; an empty path disables the
// pepper entirely.
func SetPepperPath(file string) {
	pepperFile = file
}

// GetPepper returns the process-wide pepper, loading it from the
// configured file on first use. A missing file is created with fresh
// random material so every deployment gets a distinct pepper.
func GetPepper() string {
	pepperOnce.Do(func() {
		if pepperFile == "" {
			return
		}
		loaded, err := loadOrCreatePepper(pepperFile)
		if err != nil {
			slog.Error("failed to load or create pepper", slog.Any("err", err))
			os.Exit(1)
		}
		pepper = loaded
	})
	return pepper
}

func loadOrCreatePepper(path string) (string, error) {
	path = filepath.Clean(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err == nil {
		return strings.TrimSpace(string(data)), nil
	}
	if !os.IsNotExist(err) {
		return "", err
	}

	buf := make([]byte, keyLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	fresh := base64.RawURLEncoding.EncodeToString(buf)

	if err := os.WriteFile(path, []byte(fresh), 0600); err != nil {
		return "", err
	}
	return fresh, nil
}
