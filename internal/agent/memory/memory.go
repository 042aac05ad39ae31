// Package memory — локальный кэш объявлений CLI-агента.
//
// После list агент запоминает объявления пользователя, чтобы update мог
// взять из кэша поля, которые не переданы флагами (сервер перезаписывает
// объявление целиком).
package memory

import (
	"sort"
	"sync"

	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/shared/models"
)

// AnimalsStore — потокобезопасное in-memory хранилище объявлений.
type AnimalsStore struct {
	mu      sync.RWMutex
	animals map[string]models.Animal
}

// NewAnimals создаёт пустое хранилище.
func NewAnimals() *AnimalsStore {
	return &AnimalsStore{
		animals: make(map[string]models.Animal),
	}
}

// Get возвращает объявление по ID или serr.ErrAnimalNotFound.
func (s *AnimalsStore) Get(id string) (models.Animal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.animals[id]
	if !ok {
		return models.Animal{}, serr.ErrAnimalNotFound
	}
	return a, nil
}

// Put добавляет или заменяет объявление.
func (s *AnimalsStore) Put(a models.Animal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.animals[a.ID] = a
}

// ReplaceAll заменяет содержимое стора списком с сервера.
func (s *AnimalsStore) ReplaceAll(animals []models.Animal) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.animals = make(map[string]models.Animal, len(animals))
	for _, a := range animals {
		s.animals[a.ID] = a
	}
}

// List возвращает объявления, отсортированные по ID.
func (s *AnimalsStore) List() []models.Animal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.Animal, 0, len(s.animals))
	for _, a := range s.animals {
		result = append(result, a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

// Delete удаляет объявление. Отсутствующее — serr.ErrAnimalNotFound.
func (s *AnimalsStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.animals[id]; !ok {
		return serr.ErrAnimalNotFound
	}
	delete(s.animals, id)
	return nil
}
