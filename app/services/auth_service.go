package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shashiranjanraj/dinehub/app/models"
	"github.com/shashiranjanraj/dinehub/app/repositories"
	"github.com/shashiranjanraj/dinehub/pkg/auth"
	"github.com/shashiranjanraj/dinehub/pkg/logger"
	"github.com/shashiranjanraj/dinehub/pkg/metrics"
)

// AuthService registers users, checks passwords and mints tokens. It is
// also the identity resolver behind the auth gate.
type AuthService struct {
	users            repositories.UserRepository
	issuer           *auth.Issuer
	allowAdminSignup bool
}

func NewAuthService(users repositories.UserRepository, issuer *auth.Issuer, allowAdminSignup bool) *AuthService {
	return &AuthService{users: users, issuer: issuer, allowAdminSignup: allowAdminSignup}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// Session is what register and login hand back to the client.
type Session struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// Register creates an account and signs it in. The role defaults to
// customer; admin is only accepted when admin self-registration is enabled.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*Session, error) {
	role := strings.ToLower(strings.TrimSpace(in.Role))
	switch role {
	case "", auth.RoleCustomer:
		role = auth.RoleCustomer
	case auth.RoleAdmin:
		if !s.allowAdminSignup {
			return nil, ErrAdminSignupDisabled
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, in.Role)
	}

	u := models.NewUser(in.Name, in.Email, role)
	u.SetPassword(in.Password)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, fmt.Errorf("register %s: %w", u.Email, err)
	}

	logger.WithCtx(ctx).Info("user registered", "user_id", u.ID, "role", u.Role)
	return s.session(u)
}

// Login verifies email and password. Unknown emails and wrong passwords
// produce the same ErrBadCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*Session, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			metrics.AuthFailures.WithLabelValues("login").Inc()
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}
	if !u.CheckPassword(password) {
		metrics.AuthFailures.WithLabelValues("login").Inc()
		return nil, ErrBadCredentials
	}
	return s.session(u)
}

// Profile returns the stored user without its password hash.
func (s *AuthService) Profile(ctx context.Context, id string) (*models.User, error) {
	return s.users.FindByID(ctx, id)
}

// ResolveIdentity maps a token subject to the live user record.
func (s *AuthService) ResolveIdentity(ctx context.Context, id string) (auth.Identity, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return auth.Identity{}, err
	}
	return u.Identity(), nil
}

// EnsureAdmin makes sure an admin account exists for email. An existing
// account is promoted and keeps its password; otherwise one is created.
func (s *AuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*models.User, bool, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if existing.Role != auth.RoleAdmin {
			if err := s.users.SetRole(ctx, existing.ID, auth.RoleAdmin); err != nil {
				return nil, false, fmt.Errorf("promote %s: %w", existing.Email, err)
			}
			existing.Role = auth.RoleAdmin
		}
		return existing, false, nil
	case !errors.Is(err, repositories.ErrNotFound):
		return nil, false, err
	}

	if password == "" {
		return nil, false, fmt.Errorf("admin %s: %w", email, models.ErrNoPassword)
	}
	u := models.NewUser(name, email, auth.RoleAdmin)
	u.SetPassword(password)
	if err := s.users.Create(ctx, u); err != nil {
		return nil, false, fmt.Errorf("create admin %s: %w", u.Email, err)
	}
	return u, true, nil
}

// IssueToken mints a token for an existing account without a password.
func (s *AuthService) IssueToken(ctx context.Context, email string) (string, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.issuer.Issue(u.ID, u.Role)
}

func (s *AuthService) session(u *models.User) (*Session, error) {
	token, err := s.issuer.Issue(u.ID, u.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	view := *u
	view.Password = ""
	return &Session{Token: token, User: &view}, nil
}
