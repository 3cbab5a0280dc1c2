// Package auth signs operators in to the local API with bcrypt-checked
// passwords and HS256 bearer tokens.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

const (
	RoleOwner   = "owner"
	RoleCashier = "cashier"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
)

type Claims struct {
	OperatorID int64  `json:"operator_id"`
	Role       string `json:"role"`
	jwt.RegisteredClaims
}

type Service struct {
	store  *store.Store
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewService(st *store.Store, secret string) *Service {
	return &Service{store: st, secret: []byte(secret), ttl: 12 * time.Hour, now: time.Now}
}

// HashPassword returns the bcrypt hash stored for an operator.
func HashPassword(password string) (string, error) {
	if len(password) < 6 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("unable to secure password: %w", err)
	}
	return string(hashed), nil
}

// ValidRole reports whether role is one the API understands.
func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleCashier
}

// Login checks the operator's password and issues a token.
func (s *Service) Login(ctx context.Context, username, password string) (string, domain.Operator, error) {
	op, err := s.store.GetOperatorByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", domain.Operator{}, ErrInvalidCredentials
		}
		return "", domain.Operator{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(op.Password), []byte(password)) != nil {
		return "", domain.Operator{}, ErrInvalidCredentials
	}
	token, err := s.Issue(op)
	if err != nil {
		return "", domain.Operator{}, err
	}
	op.Password = ""
	return token, op, nil
}

// Issue signs a token for op.
func (s *Service) Issue(op domain.Operator) (string, error) {
	now := s.now()
	claims := Claims{
		OperatorID: op.ID,
		Role:       op.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   op.Username,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a bearer token.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// ChangePassword replaces the operator's password.
func (s *Service) ChangePassword(ctx context.Context, username, password string) error {
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	op, err := s.store.GetOperatorByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.store.SetOperatorPassword(ctx, op.ID, hashed)
}

// AddOperator creates an operator account.
func (s *Service) AddOperator(ctx context.Context, username, password, role string) (domain.Operator, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if username == "" {
		return domain.Operator{}, errors.New("username is required")
	}
	if !ValidRole(role) {
		return domain.Operator{}, errors.New("role must be owner or cashier")
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return domain.Operator{}, err
	}
	id, err := s.store.InsertOperator(ctx, domain.Operator{Username: username, Password: hashed, Role: role})
	if err != nil {
		return domain.Operator{}, err
	}
	return domain.Operator{ID: id, Username: username, Role: role}, nil
}
