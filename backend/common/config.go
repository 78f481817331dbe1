package common

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/ini.v1"
)

const defaultConfigTemplate = "PORT=3000\nSQLITE_PATH=data/lockbox.db\nUPLOAD_PATH=data/uploads\nJWT_SECRET=%s\nJWT_REFRESH_SECRET=%s\n"

// InitConfig loads ~/.config/lockbox/config.ini (creating it with generated
// secrets on first run) and then applies environment variable overrides.
func InitConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	applyEnvOverrides()
	return nil
}

func loadConfigFile() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("get user home directory: %w", err)
	}

	configPath := filepath.Join(homeDir, ".config", "lockbox", "config.ini")
	if err := ensureConfigFile(configPath); err != nil {
		return err
	}

	configMap, err := parseIniConfig(configPath)
	if err != nil {
		return err
	}

	if err := applyConfigMap(configMap); err != nil {
		return fmt.Errorf("apply config file %s: %w", configPath, err)
	}

	return nil
}

func ensureConfigFile(configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config directory %s: %w", configDir, err)
	}

	configFile, err := os.OpenFile(configPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return nil
		}
		return fmt.Errorf("create config file %s: %w", configPath, err)
	}
	defer configFile.Close()

	content := fmt.Sprintf(defaultConfigTemplate, uuid.New().String(), uuid.New().String())
	if _, err := configFile.WriteString(content); err != nil {
		return fmt.Errorf("write default config file %s: %w", configPath, err)
	}

	return nil
}

func parseIniConfig(path string) (map[string]string, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("parse ini config %s: %w", path, err)
	}

	configMap := make(map[string]string)
	for _, section := range cfg.Sections() {
		for _, key := range section.Keys() {
			configKey := strings.ToUpper(strings.TrimSpace(key.Name()))
			if configKey == "" {
				continue
			}
			configMap[configKey] = strings.TrimSpace(key.Value())
		}
	}

	return configMap, nil
}

func applyConfigMap(configMap map[string]string) error {
	for key, value := range configMap {
		if value == "" {
			continue
		}
		if err := applyConfigValue(key, value); err != nil {
			return err
		}
	}
	return nil
}

func applyEnvOverrides() {
	for _, key := range []string{"PORT", "SQLITE_PATH", "UPLOAD_PATH", "JWT_SECRET", "JWT_REFRESH_SECRET", "SESSION_SECRET"} {
		if value := os.Getenv(key); value != "" {
			_ = applyConfigValue(key, value)
		}
	}
}

func applyConfigValue(key, value string) error {
	switch key {
	case "PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PORT value %q: %w", value, err)
		}
		*Port = port
	case "SQLITE_PATH":
		SQLitePath = value
	case "UPLOAD_PATH":
		UploadPath = value
	case "JWT_SECRET":
		JWTSecret = value
	case "JWT_REFRESH_SECRET":
		JWTRefreshSecret = value
	case "SESSION_SECRET":
		SessionSecret = value
	}
	return nil
}
