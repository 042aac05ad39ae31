package memory

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/agent/config"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// AnimalsDump — формат файла кэша: { "animals": [ ... ] }.
type AnimalsDump struct {
	Animals []models.Animal `json:"animals"`
}

// DefaultAnimalsPath возвращает $HOME/.livestock/animals.json.
func DefaultAnimalsPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, config.AppDir, "animals.json"), nil
}

// SaveToFile сохраняет стор в файл (0600, каталог 0700).
func SaveToFile(path string, store *AnimalsStore) error {
	out := AnimalsDump{Animals: store.List()}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}

// LoadFromFile заменяет содержимое стора данными из файла.
// Отсутствие файла при первом запуске не ошибка.
func LoadFromFile(path string, store *AnimalsStore) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	var dump AnimalsDump
	if err := json.Unmarshal(b, &dump); err != nil {
		return err
	}
	store.ReplaceAll(dump.Animals)
	return nil
}
