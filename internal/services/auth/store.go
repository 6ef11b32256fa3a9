package auth

import (
	"context"
	"errors"
)

// Erros sentinela do repositório de usuários.
var (
	ErrUserExists = errors.New("username already exists")
	ErrNotFound   = errors.New("user not found")
)

// Store é o repositório de contas. Duas implementações: memória
// (dev/testes) e Redis (deploy com perfil compartilhado entre réplicas).
type Store interface {
	Create(ctx context.Context, u *User) error
	ByID(ctx context.Context, id string) (*User, error)
	ByUsername(ctx context.Context, username string) (*User, error)

	// IncrementStats soma os deltas aos contadores do usuário e devolve
	// o total atualizado.
	IncrementStats(ctx context.Context, id string, delta Stats) (Stats, error)
}
