package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
	tokenLifetime  = 24 * time.Hour
	bcryptCost     = 10
)

// ErrInvalidCredentials cobre tanto usuário inexistente quanto senha
// errada. A API não distingue os dois para não vazar quais nomes existem.
var ErrInvalidCredentials = errors.New("invalid username or password")

// ValidationError descreve entrada rejeitada antes de tocar o store.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Service implementa o cadastro e login de jogadores sobre um Store.
type Service struct {
	store  Store
	secret []byte
	now    func() time.Time
}

// NewService cria o serviço. O secret assina os JWTs (HS256).
func NewService(store Store, secret []byte) *Service {
	return &Service{store: store, secret: secret, now: time.Now}
}

// Register cria a conta, devolvendo o usuário e um token já válido.
func (s *Service) Register(ctx context.Context, username, password string) (*User, string, error) {
	if len(username) < minUsernameLen {
		return nil, "", &ValidationError{Msg: fmt.Sprintf("username must have at least %d characters", minUsernameLen)}
	}
	if len(password) < minPasswordLen {
		return nil, "", &ValidationError{Msg: fmt.Sprintf("password must have at least %d characters", minPasswordLen)}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.store.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login valida as credenciais e emite um token.
func (s *Service) Login(ctx context.Context, username, password string) (*User, string, error) {
	u, err := s.store.ByUsername(ctx, username)
	if errors.Is(err, ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(u.ID)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Profile carrega a conta dona do token.
func (s *Service) Profile(ctx context.Context, userID string) (*User, error) {
	return s.store.ByID(ctx, userID)
}

// AddStats soma deltas de estatísticas e devolve o total.
func (s *Service) AddStats(ctx context.Context, userID string, delta Stats) (Stats, error) {
	return s.store.IncrementStats(ctx, userID, delta)
}

// issueToken assina um JWT HS256 com validade de 24h.
func (s *Service) issueToken(userID string) (string, error) {
	claims := jwt.MapClaims{
		"userId": userID,
		"iat":    s.now().Unix(),
		"exp":    s.now().Add(tokenLifetime).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return token, nil
}

// VerifyToken valida a assinatura e a expiração, devolvendo o userId.
func (s *Service) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid token")
	}
	userID, _ := claims["userId"].(string)
	if userID == "" {
		return "", errors.New("invalid token")
	}
	return userID, nil
}
