package utils

import (
	"crypto/rand"
	"encoding/hex"
)

// NewSessionID создает короткий случайный ID сессии вида prefix_XXXXXXXX
// (замена UUID для снижения зависимостей).
func NewSessionID(prefix string) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		panic("failed to generate session ID: " + err.Error())
	}
	if prefix == "" {
		return hex.EncodeToString(b)
	}
	return prefix + "_" + hex.EncodeToString(b)
}
