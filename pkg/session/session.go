package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	appErrors "github.com/Mohd-Imad/burial-records-management-FE/pkg/errors"
)

// TokenKey is the client-local storage key holding the auth token.
const TokenKey = "token"

// Store is the client-local key/value storage the session lives in.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// SignOutFunc is notified with the login route whenever the session ends
// because the backend (or the token itself) says it is no longer valid.
type SignOutFunc func(loginPath string)

// Options configures a Session.
type Options struct {
	LoginPath string
	Logger    *zap.Logger
	Now       func() time.Time
}

// Session owns the operator's auth token. The token is read from the store on
// every call so a token rotated by another process is picked up.
type Session struct {
	store     Store
	loginPath string
	logger    *zap.Logger
	now       func() time.Time

	mu      sync.RWMutex
	signOut []SignOutFunc
}

// New builds a Session over store.
func New(store Store, opts Options) *Session {
	if opts.LoginPath == "" {
		opts.LoginPath = "/login"
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Session{
		store:     store,
		loginPath: opts.LoginPath,
		logger:    opts.Logger,
		now:       opts.Now,
	}
}

// LoginPath returns the route the UI is sent to after a forced sign-out.
func (s *Session) LoginPath() string {
	return s.loginPath
}

// OnSignOut registers a hook fired after a forced sign-out.
func (s *Session) OnSignOut(fn SignOutFunc) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.signOut = append(s.signOut, fn)
}

// Token returns the stored token, or "" when signed out. A JWT whose exp claim
// has passed is treated like a rejected token: the session is signed out and
// ErrUnauthorized is returned without contacting the backend. Opaque tokens
// are returned as-is.
func (s *Session) Token(ctx context.Context) (string, error) {
	raw, err := s.store.Get(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, appErrors.ErrStoreMiss) {
			return "", nil
		}
		return "", err
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", nil
	}
	if s.expired(token) {
		s.logger.Info("stored token expired, signing out")
		s.SignOut(ctx)
		return "", appErrors.ErrUnauthorized
	}
	return token, nil
}

// SetToken stores a freshly issued token.
func (s *Session) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return appErrors.Clone(appErrors.ErrValidation, "token required")
	}
	return s.store.Set(ctx, TokenKey, []byte(token))
}

// ClearToken removes the token without notifying sign-out hooks (a voluntary logout).
func (s *Session) ClearToken(ctx context.Context) error {
	return s.store.Delete(ctx, TokenKey)
}

// Authenticated reports whether a usable token is present.
func (s *Session) Authenticated(ctx context.Context) bool {
	token, err := s.Token(ctx)
	return err == nil && token != ""
}

// SignOut clears the token and fires every registered hook with the login route.
func (s *Session) SignOut(ctx context.Context) {
	if err := s.ClearToken(ctx); err != nil {
		s.logger.Warn("failed to clear token", zap.Error(err))
	}
	s.mu.RLock()
	hooks := append([]SignOutFunc(nil), s.signOut...)
	s.mu.RUnlock()
	for _, fn := range hooks {
		fn(s.loginPath)
	}
}

func (s *Session) expired(token string) bool {
	if strings.Count(token, ".") != 2 {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return !s.now().Before(exp.Time)
}
