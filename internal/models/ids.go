package models

import "github.com/google/uuid"

// Chaves primárias são UUIDs em texto.
func newID() string {
	return uuid.NewString()
}
