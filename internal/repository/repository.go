package repository

import (
	"github.com/ellena02/hs-invoice-manager/pkg/database"
)

// Repositories holds all repository interfaces
type Repositories struct {
	Token TokenRepository
}

// NewRepositories creates repositories backed by Postgres when a
// connection is available, in-memory otherwise.
func NewRepositories(db *database.Postgres) *Repositories {
	if db == nil {
		return &Repositories{Token: NewMemoryTokenRepository()}
	}
	return &Repositories{Token: NewTokenRepository(db)}
}
