package app

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// LoadEnvFiles loads dotenv files into the process environment. Variables
// already set to a non-empty value in the process win; among the files,
// later ones override earlier ones. Missing files are skipped.
func LoadEnvFiles(paths ...string) error {
	preset := map[string]bool{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && v != "" {
			preset[k] = true
		}
	}
	for _, p := range paths {
		if strings.TrimSpace(p) == "" {
			continue
		}
		vals, err := godotenv.Read(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
		for k, v := range vals {
			if preset[k] {
				continue
			}
			_ = os.Setenv(k, v)
		}
	}
	return nil
}
