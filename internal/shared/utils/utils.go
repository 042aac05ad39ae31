// Утилитарные функции общего назначения
package utils

import "strings"

func StrPtr(s string) *string {
	return &s
}

// NormalizeEmail приводит email к виду, в котором он хранится в БД.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
