// Package env loads .env files so engine settings (PATH additions, engine
// log levels, server addresses) can be configured per workflow directory.
package env

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadFromDir loads dir/.env if present.
func LoadFromDir(dir string) error {
	return Load(filepath.Join(dir, ".env"))
}

// Load reads KEY=VALUE lines from path into the process environment. A
// missing file is not an error, and variables already set in the
// environment win over file entries.
func Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		_ = os.Setenv(key, val)
	}
	return scanner.Err()
}
