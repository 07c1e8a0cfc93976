package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvConfigPath - переменная окружения с путём к config.yaml.
const EnvConfigPath = "PLENTY_CONFIG"

const fileName = "config.yaml"

// Find выбирает путь к config.yaml.
//
// Явный путь (флаг -config) и PLENTY_CONFIG возвращаются как есть, даже если
// файла нет: ошибку сообщит Load. Иначе берётся первый существующий файл из
// ./config.yaml, директории бинарника и <UserConfigDir>/plenty-api/config.yaml.
// Если ничего не найдено, возвращается ./config.yaml.
func Find(explicit string) string {
	if explicit != "" {
		return absPath(explicit)
	}
	if env := os.Getenv(EnvConfigPath); env != "" {
		return absPath(env)
	}
	for _, candidate := range searchPaths() {
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return absPath(candidate)
		}
	}
	return absPath(fileName)
}

func searchPaths() []string {
	paths := []string{fileName}
	if exe, err := os.Executable(); err == nil {
		paths = append(paths, filepath.Join(filepath.Dir(exe), fileName))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		paths = append(paths, filepath.Join(dir, "plenty-api", fileName))
	}
	return paths
}

// Discover находит и загружает конфигурацию. Возвращает и выбранный путь.
func Discover(explicit string) (*AppConfig, string, error) {
	path := Find(explicit)
	cfg, err := Load(path)
	if err != nil {
		return nil, path, fmt.Errorf("failed to load config from %s: %w", path, err)
	}
	return cfg, path, nil
}

func absPath(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}
