package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/skyrates/skyrates_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires up all PostgreSQL-backed repositories.
func NewRepositoryProvider(db *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		UserRepo: NewUserRepository(db),
	}
}
