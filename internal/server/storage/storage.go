// Package storage хранит изображения объявлений.
//
// Два бэкенда:
//   - LocalSink — каталог на диске (по умолчанию uploads/);
//   - S3Sink — S3-совместимый бакет (AWS S3, Cloudflare R2, MinIO).
//
// Имя файла от клиента никогда не используется как путь напрямую:
// оно очищается SanitizeFilename и получает uuid-префикс, поэтому две загрузки
// с одинаковым именем не перезаписывают друг друга.
package storage

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"github.com/IvanChernomyrdin/go-livestock-market/internal/server/config"
	serr "github.com/IvanChernomyrdin/go-livestock-market/internal/shared/errors"
)

// Sink — хранилище загруженных файлов.
type Sink interface {
	// Store сохраняет тело файла и возвращает ссылку на него (путь или URL).
	Store(ctx context.Context, originalName, contentType string, body io.Reader) (string, error)
	// Remove удаляет ранее сохранённый файл по ссылке. Отсутствие файла не ошибка.
	Remove(ctx context.Context, ref string) error
}

const (
	fallbackName = "file"
	maxNameLen   = 128
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeFilename превращает имя файла от клиента в безопасное имя:
//   - Unicode раскладывается (NFKD) и оставляются только ASCII-символы;
//   - разделители путей и пробелы превращаются в "_";
//   - всё кроме [A-Za-z0-9_.-] выбрасывается;
//   - ведущие и хвостовые "." и "_" обрезаются.
//
// "../../etc/passwd" -> "etc_passwd". Если ничего не осталось — "file".
func SanitizeFilename(name string) string {
	decomposed := norm.NFKD.String(name)

	var b strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	s := strings.NewReplacer("/", " ", `\`, " ").Replace(b.String())
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	if len(s) > maxNameLen {
		s = strings.Trim(s[len(s)-maxNameLen:], "._")
	}
	if s == "" {
		return fallbackName
	}
	return s
}

// NewKey возвращает ключ хранения "<uuid>_<очищенное имя>".
func NewKey(originalName string) string {
	return uuid.NewString() + "_" + SanitizeFilename(originalName)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", serr.ErrStorage, op, err)
}

// New создаёт Sink по секции uploads конфига.
func New(ctx context.Context, cfg config.UploadsConfig) (Sink, error) {
	switch strings.ToLower(cfg.Backend) {
	case "", "local":
		return NewLocalSink(cfg.Dir)
	case "s3":
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Sink(client, cfg.S3), nil
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", cfg.Backend)
	}
}
