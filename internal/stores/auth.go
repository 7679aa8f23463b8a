package stores

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/sonora/internal/models"
	"github.com/desertthunder/sonora/internal/shared"
	"golang.org/x/oauth2"
)

// DefaultAvatar is assigned to users created locally.
const DefaultAvatar = "https://images.pexels.com/photos/1644924/pexels-photo-1644924.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2"

// AuthState is a snapshot of the session.
type AuthState struct {
	User          *models.User
	Authenticated bool
	Loading       bool
}

type authActionKind int

const (
	loginStart authActionKind = iota
	loginSuccess
	loginError
	logout
)

type authAction struct {
	kind authActionKind
	user *models.User
}

func reduceAuth(s AuthState, a authAction) AuthState {
	switch a.kind {
	case loginStart:
		s.Loading = true
	case loginSuccess:
		s = AuthState{User: a.user, Authenticated: a.user != nil}
	case loginError, logout:
		s = AuthState{}
	}
	return s
}

// AuthOptions configures an [AuthStore].
type AuthOptions struct {
	// TokenURL is the password-grant endpoint, usually "<api>/auth/login". Empty skips the exchange.
	TokenURL   string
	ClientID   string
	HTTPClient *http.Client
	Logger     *log.Logger
}

// AuthStore holds the signed-in user.
//
// Login exchanges credentials for a token when the API supports it and otherwise falls back to a local session,
// so a user can always sign in.
type AuthStore struct {
	mu     sync.Mutex
	state  AuthState
	store  models.KeyValue
	oauth  oauth2.Config
	client *http.Client
	logger *log.Logger
}

// NewAuthStore restores a saved session.
func NewAuthStore(store models.KeyValue, opts AuthOptions) *AuthStore {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.ClientID == "" {
		opts.ClientID = "sonora"
	}
	s := &AuthStore{
		store:  store,
		client: opts.HTTPClient,
		logger: opts.Logger,
		oauth: oauth2.Config{
			ClientID: opts.ClientID,
			Endpoint: oauth2.Endpoint{TokenURL: opts.TokenURL, AuthStyle: oauth2.AuthStyleInParams},
		},
	}

	var user models.User
	if ok, err := store.Get(KeyUser, &user); err != nil {
		s.logger.Warn("failed to load session", "err", err)
	} else if ok {
		s.state = reduceAuth(s.state, authAction{kind: loginSuccess, user: &user})
	}
	return s
}

// State returns the session snapshot.
func (s *AuthStore) State() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	if st.User != nil {
		u := *st.User
		st.User = &u
	}
	return st
}

// Login signs in with email and password.
func (s *AuthStore) Login(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", shared.ErrInvalidInput)
	}

	s.dispatch(authAction{kind: loginStart})

	user := &models.User{ID: "1", Email: email, Name: localPart(email), Avatar: DefaultAvatar}
	token, err := s.exchange(ctx, email, password)
	if err != nil {
		s.logger.Warn("token exchange failed, using local session", "email", email, "err", err)
	} else if id, ok := token.Extra("user_id").(string); ok && id != "" {
		user.ID = id
	}

	if err := s.begin(user, token); err != nil {
		return nil, err
	}
	return user, nil
}

// Signup creates a local account and signs it in.
func (s *AuthStore) Signup(ctx context.Context, name, email, password string) (*models.User, error) {
	name, email = strings.TrimSpace(name), strings.TrimSpace(email)
	if name == "" || email == "" {
		return nil, fmt.Errorf("%w: name and email are required", shared.ErrInvalidInput)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.dispatch(authAction{kind: loginStart})
	user := &models.User{ID: shared.GenerateID(), Email: email, Name: name, Avatar: DefaultAvatar}
	if err := s.begin(user, nil); err != nil {
		return nil, err
	}
	return user, nil
}

// Logout clears the session.
func (s *AuthStore) Logout() error {
	s.dispatch(authAction{kind: logout})

	if err := s.store.Delete(KeyUser); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	if err := s.store.Delete(KeyToken); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

// Token returns the saved API token, or nil when the session is local.
func (s *AuthStore) Token() *oauth2.Token {
	var tok oauth2.Token
	ok, err := s.store.Get(KeyToken, &tok)
	if err != nil || !ok || tok.AccessToken == "" {
		return nil
	}
	return &tok
}

// TokenSource reads the saved token on every call. It fails with [shared.ErrNotAuthenticated] while the session
// has no token.
func (s *AuthStore) TokenSource() oauth2.TokenSource { return sessionTokens{s} }

type sessionTokens struct{ auth *AuthStore }

func (t sessionTokens) Token() (*oauth2.Token, error) {
	if tok := t.auth.Token(); tok != nil {
		return tok, nil
	}
	return nil, shared.ErrNotAuthenticated
}

func (s *AuthStore) exchange(ctx context.Context, email, password string) (*oauth2.Token, error) {
	if s.oauth.Endpoint.TokenURL == "" {
		return nil, fmt.Errorf("%w: no token endpoint", shared.ErrServiceUnavailable)
	}
	if s.client != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)
	}

	tok, err := s.oauth.PasswordCredentialsToken(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrAuthFailed, err)
	}
	return tok, nil
}

func (s *AuthStore) begin(user *models.User, token *oauth2.Token) error {
	if err := s.store.Set(KeyUser, user); err != nil {
		s.dispatch(authAction{kind: loginError})
		return fmt.Errorf("%w: failed to persist session: %w", shared.ErrAuthFailed, err)
	}

	if token != nil {
		if err := s.store.Set(KeyToken, token); err != nil {
			s.logger.Warn("failed to persist token", "err", err)
		}
	} else if err := s.store.Delete(KeyToken); err != nil {
		s.logger.Warn("failed to clear token", "err", err)
	}

	s.dispatch(authAction{kind: loginSuccess, user: user})
	return nil
}

func (s *AuthStore) dispatch(a authAction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = reduceAuth(s.state, a)
}

func localPart(email string) string {
	if i := strings.Index(email, "@"); i >= 0 {
		return email[:i]
	}
	return email
}
