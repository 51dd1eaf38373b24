// Package config содержит функции для работы с локальной конфигурацией CLI-клиента.
//
// Конфигурация хранит access токен и email последнего входа и размещается
// в домашней директории пользователя в файле:
//
//	~/.authctl/credentials.json
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

// EnvCredentialsPath переопределяет путь к файлу учётных данных.
const EnvCredentialsPath = "AUTHCTL_CREDENTIALS"

// Credentials содержит учётные данные, используемые CLI-клиентом.
type Credentials struct {
	Token string `json:"token"`
	Email string `json:"email,omitempty"`
}

// DefaultPath возвращает путь к файлу учётных данных.
//
// Если задана переменная AUTHCTL_CREDENTIALS, используется она,
// иначе <home>/.authctl/credentials.json.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvCredentialsPath); p != "" {
		return p, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".authctl", "credentials.json"), nil
}

// Load загружает учётные данные из указанного файла.
//
// Если файл не существует, возвращает пустые данные без ошибки.
func Load(path string) (*Credentials, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
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

// Save сохраняет учётные данные в JSON.
//
// Директория создаётся с правами 0700, файл пишется с правами 0600.
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
