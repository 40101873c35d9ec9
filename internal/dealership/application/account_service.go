package application

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/sngm3741/dealer-review-services/internal/dealership/domain"
)

// ErrUsernameRequired is returned for a blank username or password.
var ErrUsernameRequired = errors.New("username and password are required")

// AccountService handles registration and credential checks.
type AccountService interface {
	Register(ctx context.Context, cmd RegisterCommand) (domain.User, error)
	Authenticate(ctx context.Context, username, password string) (domain.User, error)
}

type RegisterCommand struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	Staff     bool
}

type accountService struct {
	users UserRepository
	cost  int
}

// NewAccountService returns an AccountService hashing with the given bcrypt cost
// (bcrypt.DefaultCost when out of range).
func NewAccountService(users UserRepository, cost int) AccountService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &accountService{users: users, cost: cost}
}

// Register creates the account unless the username is taken (domain.ErrUserExists).
func (s *accountService) Register(ctx context.Context, cmd RegisterCommand) (domain.User, error) {
	username := strings.TrimSpace(cmd.Username)
	if username == "" || cmd.Password == "" {
		return domain.User{}, ErrUsernameRequired
	}

	exists, err := s.users.ExistsByUsername(ctx, username)
	if err != nil {
		return domain.User{}, err
	}
	if exists {
		return domain.User{}, domain.ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), s.cost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		Username:     username,
		FirstName:    strings.TrimSpace(cmd.FirstName),
		LastName:     strings.TrimSpace(cmd.LastName),
		PasswordHash: hash,
		IsStaff:      cmd.Staff,
	}
	if err := s.users.Create(ctx, &user); err != nil {
		return domain.User{}, err
	}
	return user, nil
}

// Authenticate returns domain.ErrInvalidCredentials for unknown users and wrong passwords alike.
func (s *accountService) Authenticate(ctx context.Context, username, password string) (domain.User, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrUserNotFound) {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	if err != nil {
		return domain.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return domain.User{}, domain.ErrInvalidCredentials
	}
	return user, nil
}
