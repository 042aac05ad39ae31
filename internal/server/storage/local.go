package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalSink сохраняет файлы в каталог на диске.
//
// Ссылка на файл — путь вида "<dir>/<key>" (со слэшами), ровно так он и
// попадает в images объявления.
type LocalSink struct {
	dir string // как задан в конфиге, для ссылок
	abs string // абсолютный путь, для проверок
}

// NewLocalSink создаёт каталог, если его нет, и возвращает LocalSink.
func NewLocalSink(dir string) (*LocalSink, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, errors.New("upload dir is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload dir: %w", err)
	}
	return &LocalSink{dir: filepath.Clean(dir), abs: abs}, nil
}

// Dir возвращает каталог загрузок.
func (s *LocalSink) Dir() string {
	return s.dir
}

// Store пишет файл под уникальным ключом. Существующий файл никогда не перезаписывается.
func (s *LocalSink) Store(ctx context.Context, originalName, _ string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := NewKey(originalName)
	path, err := s.resolve(key)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", storageErr("create", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", storageErr("write", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", storageErr("close", err)
	}

	return filepath.ToSlash(filepath.Join(s.dir, key)), nil
}

// Remove удаляет файл по ссылке, которую вернул Store.
// Удаляется только файл внутри каталога загрузок.
func (s *LocalSink) Remove(_ context.Context, ref string) error {
	name := filepath.Base(filepath.FromSlash(ref))
	if name == "." || name == string(filepath.Separator) {
		return nil
	}
	path, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return storageErr("remove", err)
	}
	return nil
}

// resolve строит путь внутри каталога и проверяет, что он из него не выходит.
func (s *LocalSink) resolve(name string) (string, error) {
	path := filepath.Join(s.abs, name)
	rel, err := filepath.Rel(s.abs, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return "", storageErr("resolve", fmt.Errorf("path %q escapes upload dir", name))
	}
	return path, nil
}
