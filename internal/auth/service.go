package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/progarden/garden-crm/internal/shared"
	"github.com/progarden/garden-crm/internal/users"
	"github.com/progarden/garden-crm/jobs"
)

// UserSource finds accounts for credential checks.
type UserSource interface {
	FindByUsername(ctx context.Context, username string) (*users.User, error)
}

// EmailQueue enqueues outgoing mail. Nil disables login notifications.
type EmailQueue interface {
	EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) error
}

// Service wraps authentication business rules.
type Service struct {
	logger *slog.Logger
	users  UserSource
	tokens *shared.TokenManager
	queue  EmailQueue
	now    func() time.Time
}

// NewService constructs a new Service.
func NewService(logger *slog.Logger, users UserSource, tokens *shared.TokenManager, queue EmailQueue) *Service {
	return &Service{logger: logger, users: users, tokens: tokens, queue: queue, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Authenticate validates username/password credentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*users.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return user, nil
}

// Login authenticates the credentials and issues a bearer token. A login
// notification email is queued when the account carries an address.
func (s *Service) Login(ctx context.Context, username, password string) (string, *users.User, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(ctx, shared.Identity{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	})
	if err != nil {
		return "", nil, err
	}
	s.notifyLogin(ctx, user)
	return token, user, nil
}

// Logout revokes a bearer token.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// CurrentUser resolves the account behind a request identity.
func (s *Service) CurrentUser(ctx context.Context, id *shared.Identity) (*users.User, error) {
	if id == nil {
		return nil, shared.ErrTokenMissing
	}
	return s.users.FindByUsername(ctx, id.Username)
}

func (s *Service) notifyLogin(ctx context.Context, user *users.User) {
	if s.queue == nil || user.Email == "" {
		return
	}
	payload := jobs.SendEmailPayload{
		To:      user.Email,
		Subject: "New sign-in to Pro Garden CRM",
		Body: fmt.Sprintf("Hi %s,\n\nYour account signed in on %s.\nIf this was not you, change your password right away.\n",
			user.Username, s.now().UTC().Format(time.RFC1123)),
	}
	if err := s.queue.EnqueueSendEmail(ctx, payload); err != nil {
		// Login still succeeds, the notification is best effort.
		s.logger.Warn("queue login notification", slog.Any("error", err), slog.String("username", user.Username))
	}
}
