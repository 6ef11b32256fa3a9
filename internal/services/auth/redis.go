package auth

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Chaves: user:<id> é um hash com os campos da conta;
// username:<nome> indexa o nome para o id.
const (
	userKeyPrefix     = "user:"
	usernameKeyPrefix = "username:"
)

// RedisStore guarda as contas em Redis, para quando várias réplicas do
// servidor compartilham o mesmo cadastro. O estado de sessão NÃO passa
// por aqui: partidas continuam 100% em memória.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore conecta no Redis e valida com um ping.
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return &RedisStore{rdb: rdb}, nil
}

func (s *RedisStore) Create(ctx context.Context, u *User) error {
	// SETNX no índice de username é o que garante unicidade do nome.
	ok, err := s.rdb.SetNX(ctx, usernameKeyPrefix+u.Username, u.ID, 0).Result()
	if err != nil {
		return fmt.Errorf("reserving username %q: %w", u.Username, err)
	}
	if !ok {
		return ErrUserExists
	}

	fields := map[string]any{
		"username":       u.Username,
		"passwordHash":   u.PasswordHash,
		"createdAt":      u.CreatedAt.Format(time.RFC3339Nano),
		"gamesPlayed":    u.Stats.GamesPlayed,
		"wins":           u.Stats.Wins,
		"losses":         u.Stats.Losses,
		"artilleryHits":  u.Stats.ArtilleryHits,
		"unitsDestroyed": u.Stats.UnitsDestroyed,
	}
	if err := s.rdb.HSet(ctx, userKeyPrefix+u.ID, fields).Err(); err != nil {
		return fmt.Errorf("storing user %s: %w", u.ID, err)
	}
	return nil
}

func (s *RedisStore) ByID(ctx context.Context, id string) (*User, error) {
	fields, err := s.rdb.HGetAll(ctx, userKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("loading user %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	u := &User{
		ID:           id,
		Username:     fields["username"],
		PasswordHash: fields["passwordHash"],
	}
	u.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["createdAt"])
	u.Stats = Stats{
		GamesPlayed:    atoi(fields["gamesPlayed"]),
		Wins:           atoi(fields["wins"]),
		Losses:         atoi(fields["losses"]),
		ArtilleryHits:  atoi(fields["artilleryHits"]),
		UnitsDestroyed: atoi(fields["unitsDestroyed"]),
	}
	return u, nil
}

func (s *RedisStore) ByUsername(ctx context.Context, username string) (*User, error) {
	id, err := s.rdb.Get(ctx, usernameKeyPrefix+username).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolving username %q: %w", username, err)
	}
	return s.ByID(ctx, id)
}

func (s *RedisStore) IncrementStats(ctx context.Context, id string, delta Stats) (Stats, error) {
	key := userKeyPrefix + id
	exists, err := s.rdb.Exists(ctx, key).Result()
	if err != nil {
		return Stats{}, fmt.Errorf("checking user %s: %w", id, err)
	}
	if exists == 0 {
		return Stats{}, ErrNotFound
	}

	incs := map[string]int{
		"gamesPlayed":    delta.GamesPlayed,
		"wins":           delta.Wins,
		"losses":         delta.Losses,
		"artilleryHits":  delta.ArtilleryHits,
		"unitsDestroyed": delta.UnitsDestroyed,
	}
	pipe := s.rdb.Pipeline()
	for field, n := range incs {
		if n != 0 {
			pipe.HIncrBy(ctx, key, field, int64(n))
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return Stats{}, fmt.Errorf("incrementing stats for %s: %w", id, err)
	}

	u, err := s.ByID(ctx, id)
	if err != nil {
		return Stats{}, err
	}
	return u.Stats, nil
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
