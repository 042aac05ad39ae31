// Package validatorx — тонкая обёртка над go-playground/validator.
//
// Валидатор создаётся один раз и переиспользуется: он кэширует разбор тегов структур.
package validatorx

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	gpvalidator "github.com/go-playground/validator/v10"
)

var (
	v    *gpvalidator.Validate
	once sync.Once
)

// Init инициализирует валидатор (идемпотентно).
func Init() {
	once.Do(func() {
		v = gpvalidator.New(gpvalidator.WithRequiredStructEnabled())

		// в сообщениях об ошибках используем json-имена полей
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})

		// notblank: строка не пустая после TrimSpace
		_ = v.RegisterValidation("notblank", func(fl gpvalidator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
	})
}

// ValidateStruct проверяет структуру по тегам validate.
func ValidateStruct(s any) error {
	Init()
	return v.Struct(s)
}

// Message превращает ошибку валидации в короткое читаемое сообщение:
// "name: required; price: gte".
func Message(err error) string {
	var verrs gpvalidator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}
