// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of plain-text
// files and from a dotenv file. Each file in the directory represents one
// secret: the filename is the key name and the file contents (trimmed) are the
// value.
//
// Supported key files: tavily-api-key, openai-api-key, gemini-api-key,
// huggingface-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Key file names recognised by the CLI.
const (
	TavilyKey      = "tavily-api-key"
	OpenAIKey      = "openai-api-key"
	GeminiKey      = "gemini-api-key"
	HuggingFaceKey = "huggingface-api-key"
)

// envNames maps dotenv variables onto the key file names above.
var envNames = map[string]string{
	"TAVILY_API_KEY":      TavilyKey,
	"OPENAI_API_KEY":      OpenAIKey,
	"GEMINI_API_KEY":      GeminiKey,
	"HUGGINGFACE_API_KEY": HuggingFaceKey,
	"HF_API_TOKEN":        HuggingFaceKey,
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning but do not abort.
func Load(dir string, logger *zap.Logger) (map[string]string, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			logger.Warn("could not read secret", zap.String("name", name), zap.Error(err))
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv reads a dotenv file and merges the recognised API key variables
// into secrets without overwriting keys already present. A missing file is
// not an error.
func LoadDotEnv(path string, secrets map[string]string) error {
	vars, err := godotenv.Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading dotenv file %s: %w", path, err)
	}
	for env, key := range envNames {
		v := strings.TrimSpace(vars[env])
		if v == "" {
			continue
		}
		if _, ok := secrets[key]; !ok {
			secrets[key] = v
		}
	}
	return nil
}

// IsPlaceholder reports whether a credential is absent or still holds a
// template value such as "your-key-here" or "Set your API KEY Here".
func IsPlaceholder(value string) bool {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return true
	}
	return strings.HasPrefix(v, "your-") || strings.HasPrefix(v, "set your")
}
