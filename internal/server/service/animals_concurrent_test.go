package service_test

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/models"
	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

// lockstepAnimals держит одно объявление. GetByID ждёт, пока его вызовут
// все участники, поэтому обе проверки владельца видят одинаковые изображения.
type lockstepAnimals struct {
	mu     sync.Mutex
	animal models.Animal
	reads  sync.WaitGroup
}

func (r *lockstepAnimals) Create(context.Context, uuid.UUID, models.AnimalFields, []string) (uuid.UUID, error) {
	return uuid.Nil, serr.ErrInternal
}

func (r *lockstepAnimals) GetByID(_ context.Context, id uuid.UUID) (models.Animal, error) {
	r.mu.Lock()
	a := r.animal
	r.mu.Unlock()

	r.reads.Done()
	r.reads.Wait()

	if a.ID != id {
		return models.Animal{}, serr.ErrListingNotFound
	}
	return a, nil
}

func (r *lockstepAnimals) Update(_ context.Context, id, farmerID uuid.UUID, f models.AnimalFields, images []string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.animal.ID != id || r.animal.FarmerID != farmerID {
		return nil, serr.ErrListingNotFound
	}
	old := r.animal.Images
	r.animal.AnimalFields = f
	if images != nil {
		r.animal.Images = images
	}
	return old, nil
}

func (r *lockstepAnimals) Delete(context.Context, uuid.UUID, uuid.UUID) ([]string, error) {
	return nil, serr.ErrInternal
}

func (r *lockstepAnimals) ListByOwner(context.Context, uuid.UUID) ([]models.Animal, error) {
	return nil, nil
}

func (r *lockstepAnimals) images() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.animal.Images...)
}

// memSink хранит ссылки на «файлы» в памяти.
type memSink struct {
	mu    sync.Mutex
	seq   int
	files map[string]bool
}

func (s *memSink) Store(_ context.Context, name, _ string, body io.Reader) (string, error) {
	if _, err := io.Copy(io.Discard, body); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	ref := fmt.Sprintf("uploads/%d_%s", s.seq, name)
	s.files[ref] = true
	return ref, nil
}

func (s *memSink) Remove(_ context.Context, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, ref)
	return nil
}

func (s *memSink) refs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.files))
	for ref := range s.files {
		out = append(out, ref)
	}
	sort.Strings(out)
	return out
}

// Два одновременных PUT с новыми изображениями: в хранилище остаются
// только файлы, на которые ссылается объявление.
func TestAnimalsService_Update_ConcurrentReplaceLeavesNoOrphans(t *testing.T) {
	ctx := context.Background()
	id, farmer := uuid.New(), uuid.New()

	sink := &memSink{files: map[string]bool{"uploads/0_old.jpg": true}}
	repo := &lockstepAnimals{animal: models.Animal{
		ID:           id,
		FarmerID:     farmer,
		AnimalFields: cowFields(),
		Images:       []string{"uploads/0_old.jpg"},
	}}
	repo.reads.Add(2)

	svc := service.NewAnimalsService(repo, sink, nil)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, name := range []string{"a.jpg", "b.jpg"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = svc.Update(ctx, id, farmer, cowInput(), []service.ImageUpload{upload(name)})
		}()
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	current := repo.images()
	require.Len(t, current, 1)
	require.Equal(t, current, sink.refs())
}
