// Package config хранит локальные учётные данные CLI-агента.
//
// Файл лежит в домашней директории пользователя:
//
//	~/.livestock/credentials.json
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// AppDir — каталог агента в домашней директории.
const AppDir = ".livestock"

// Credentials содержит access токен и данные пользователя, полученные при логине.
type Credentials struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id,omitempty"`
	Email       string `json:"email,omitempty"`
	Name        string `json:"name,omitempty"`
	Role        string `json:"role,omitempty"`
}

// LoggedIn сообщает, сохранён ли access токен.
func (c *Credentials) LoggedIn() bool {
	return c != nil && c.AccessToken != ""
}

// DefaultPath возвращает <home>/.livestock/credentials.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, AppDir, "credentials.json"), nil
}

// Load загружает учётные данные. Отсутствие файла не ошибка: возвращаются пустые данные.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Credentials{}, nil
		}
		return nil, err
	}
	var c Credentials
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Save записывает учётные данные с правами 0600, каталог создаётся с 0700.
func Save(path string, c *Credentials) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
