package service

import "context"

// HealthService проверяет зависимости сервера (PostgreSQL, Redis).
type HealthService struct {
	checks []HealthRepo
}

func NewHealthService(checks ...HealthRepo) *HealthService {
	return &HealthService{checks: checks}
}

// Check возвращает первую ошибку среди проверок.
func (s *HealthService) Check(ctx context.Context) error {
	for _, c := range s.checks {
		if c == nil {
			continue
		}
		if err := c.Ping(ctx); err != nil {
			return err
		}
	}
	return nil
}
