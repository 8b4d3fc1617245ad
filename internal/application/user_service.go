package application

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-query-service/config"
	"github.com/oksasatya/go-user-query-service/internal/domain/entity"
	repo "github.com/oksasatya/go-user-query-service/internal/domain/repository"
	"github.com/oksasatya/go-user-query-service/internal/observability/metrics"
	"github.com/oksasatya/go-user-query-service/pkg/apperror"
	"github.com/oksasatya/go-user-query-service/pkg/sanitize"
)

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	GenerateAccessToken(userID int64, email, role string) (string, time.Time, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) bool
}

// Notifier is told about new accounts. Failures never fail the caller.
type Notifier interface {
	UserRegistered(ctx context.Context, u *entity.User) error
}

type UserService struct {
	Repo     repo.UserRepository
	Tokens   TokenIssuer
	Hasher   PasswordHasher
	Notifier Notifier
	Cfg      *config.Config
	Logger   *logrus.Logger
}

func NewUserService(r repo.UserRepository, tokens TokenIssuer, hasher PasswordHasher, notifier Notifier, cfg *config.Config, logger *logrus.Logger) *UserService {
	return &UserService{
		Repo:     r,
		Tokens:   tokens,
		Hasher:   hasher,
		Notifier: notifier,
		Cfg:      cfg,
		Logger:   logger,
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     entity.Role
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *entity.User
}

// UpdateInput carries optional profile changes. Role and verification are
// not settable here.
type UpdateInput struct {
	Name  *string
	Email *string
}

func notFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NotFound("user not found")
	}
	return apperror.Internal(err)
}

// Register creates an account. The existence pre-check gives a fast answer;
// the unique constraint is what actually guarantees one account per email.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (u *entity.User, err error) {
	defer func() { metrics.RegistrationsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	name := sanitize.Name(in.Name)
	email := sanitize.Email(in.Email)
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	if !role.Valid() {
		return nil, apperror.Validation("", map[string]string{"role": entity.RoleHint()})
	}

	exists, err := s.Repo.EmailExists(ctx, email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.EmailTaken(nil)
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	u = &entity.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsVerified:   s.Cfg.AutoVerifyUsers,
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperror.EmailTaken(err)
		}
		return nil, apperror.Internal(err)
	}

	if s.Notifier != nil && !u.IsVerified {
		if nErr := s.Notifier.UserRegistered(ctx, u); nErr != nil && s.Logger != nil {
			s.Logger.WithError(nErr).WithField("user_id", u.ID).Warn("registration notification failed")
		}
	}
	return u, nil
}

// Login checks credentials and records one login event on success.
// Unverified accounts are rejected before the password is checked.
func (s *UserService) Login(ctx context.Context, email, password string) (res *LoginResult, err error) {
	defer func() { metrics.LoginsTotal.WithLabelValues(metrics.Result(err)).Inc() }()

	u, err := s.Repo.GetByEmail(ctx, sanitize.Email(email))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, apperror.InvalidCredentials()
		}
		return nil, apperror.Internal(err)
	}
	if !u.IsVerified {
		return nil, apperror.NotVerified()
	}
	if !s.Hasher.Compare(u.PasswordHash, password) {
		return nil, apperror.InvalidCredentials()
	}

	if _, err := s.Repo.RecordLogin(ctx, u.ID); err != nil {
		return nil, apperror.Internal(err)
	}
	token, exp, err := s.Tokens.GenerateAccessToken(u.ID, u.Email, string(u.Role))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate access token failed")
		}
		return nil, apperror.Internal(err)
	}
	return &LoginResult{Token: token, ExpiresAt: exp, User: u}, nil
}

// Verify marks the account verified. Verifying twice is not an error.
func (s *UserService) Verify(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Repo.SetVerified(ctx, sanitize.Email(email))
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in UpdateInput) (*entity.User, error) {
	var ch repo.UserChanges
	if in.Name != nil {
		name := sanitize.Name(*in.Name)
		ch.Name = &name
	}
	if in.Email != nil {
		email := sanitize.Email(*in.Email)
		ch.Email = &email

		other, err := s.Repo.GetByEmail(ctx, email)
		switch {
		case err == nil && other.ID != id:
			return nil, apperror.EmailTaken(nil)
		case err != nil && !errors.Is(err, repo.ErrNotFound):
			return nil, apperror.Internal(err)
		}
	}

	u, err := s.Repo.Update(ctx, id, ch)
	if err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			return nil, apperror.EmailTaken(err)
		}
		return nil, notFound(err)
	}
	return u, nil
}

// Delete removes the user and, through the foreign key, its login events.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return notFound(err)
	}
	return nil
}

func (s *UserService) EmailExists(ctx context.Context, email string) (bool, error) {
	exists, err := s.Repo.EmailExists(ctx, sanitize.Email(email))
	if err != nil {
		return false, apperror.Internal(err)
	}
	return exists, nil
}
