package velo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
)

// Config struct
type Config struct {
	Values map[string]string
}

// findProjectRoot walks upward from dir until it finds the project root,
// identified by a CMakeLists.txt next to a frontend/ directory.
func findProjectRoot(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		cmakeLists := filepath.Join(dir, "CMakeLists.txt")
		frontend := filepath.Join(dir, "frontend")
		if fileExists(cmakeLists) && dirExists(frontend) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not inside a VelocityDB checkout (no CMakeLists.txt + frontend/ found above %s)", dir)
		}
		dir = parent
	}
}

// loadConfig reads velo.conf and .env from the project root and applies
// defaults. Values never touch the process environment; they live on the
// returned Config only.
func loadConfig(root string) (*Config, error) {
	cfg := &Config{Values: make(map[string]string)}

	// velo.conf: plain KEY=VALUE lines, # comments
	file, err := os.Open(filepath.Join(root, "velo.conf"))
	if err == nil {
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			parts := strings.SplitN(line, "=", 2)
			if len(parts) != 2 {
				continue
			}
			key := strings.TrimSpace(parts[0])
			val := strings.TrimSpace(parts[1])
			val = strings.Trim(val, `"'`)
			cfg.Values[key] = val
		}
		scanErr := scanner.Err()
		file.Close()
		if scanErr != nil {
			return cfg, scanErr
		}
	}

	// .env overrides velo.conf. Read, not Load: the orchestrator never
	// mutates its own environment.
	if envPath := filepath.Join(root, ".env"); fileExists(envPath) {
		dotenv, err := godotenv.Read(envPath)
		if err != nil {
			return cfg, fmt.Errorf("reading .env: %w", err)
		}
		for k, v := range dotenv {
			cfg.Values[k] = v
		}
	}

	mergeEnvOverrides(cfg)

	if cfg.Values["VELO_ARCHIVE_FORMAT"] == "" {
		cfg.Values["VELO_ARCHIVE_FORMAT"] = "gz"
	}
	if cfg.Values["VELO_BINARY_NAME"] == "" {
		name := "VelocityDB"
		if runtime.GOOS == "windows" {
			name += ".exe"
		}
		cfg.Values["VELO_BINARY_NAME"] = name
	}

	return cfg, nil
}

// Merge VELO_* and ARTIFACT_* env overrides
func mergeEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, "VELO_") || strings.HasPrefix(env, "ARTIFACT_") {
			parts := strings.SplitN(env, "=", 2)
			if len(parts) == 2 {
				cfg.Values[parts[0]] = parts[1]
			}
		}
	}
}

func initConfig(root string, cfg *Config) {
	projectRoot = root
	frontendDir = filepath.Join(root, "frontend")
	buildDir = filepath.Join(root, "build")
	distDir = filepath.Join(root, "dist")
	logsDir = filepath.Join(buildDir, "logs")

	binaryName = cfg.Values["VELO_BINARY_NAME"]
	archiveFormat = cfg.Values["VELO_ARCHIVE_FORMAT"]

	switch strings.ToLower(cfg.Values["VELO_DEBUG"]) {
	case "1", "true", "yes", "on":
		Debug = true
	}
}
