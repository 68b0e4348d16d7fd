package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
)

// Session is returned by a successful login or registration.
type Session struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}

type SessionUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthClient signs users in and up. It does not need a credential.
type AuthClient struct {
	t *transport
}

func NewAuthClient(cfg Config) (*AuthClient, error) {
	t, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	return &AuthClient{t: t}, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login exchanges credentials for a session token. Wrong credentials come back
// as *AuthError.
func (c *AuthClient) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	if _, err := c.t.do(ctx, http.MethodPost, "/login", false, loginRequest{Email: email, Password: password}, &s); err != nil {
		return nil, err
	}
	return checkSession(&s)
}

// Register creates an account and signs it in. A taken email comes back as
// *planner.ValidationError with the server's message.
func (c *AuthClient) Register(ctx context.Context, name, email, password string) (*Session, error) {
	req := registerRequest{Name: name, Email: email, Password: password}
	var s Session
	if _, err := c.t.do(ctx, http.MethodPost, "/register", false, req, &s); err != nil {
		return nil, err
	}
	return checkSession(&s)
}

func checkSession(s *Session) (*Session, error) {
	if strings.TrimSpace(s.Token) == "" {
		return nil, fmt.Errorf("%w: session without token", ErrMalformedResponse)
	}
	return s, nil
}
