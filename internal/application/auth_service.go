package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
	"github.com/golang-jwt/jwt/v4"
)

const (
	tokenPath    = "token/"
	registerPath = "register/"

	LoginFailedMessage    = "Login failed. Please check your username and password."
	RegisterFailedMessage = "Registration failed. Try again."
)

type AuthService struct {
	gateway  ports.Gateway
	sessions ports.SessionStore
	identity *IdentityResolver
}

func NewAuthService(gateway ports.Gateway, sessions ports.SessionStore, identity *IdentityResolver) *AuthService {
	return &AuthService{gateway: gateway, sessions: sessions, identity: identity}
}

// Login exchanges credentials for a token pair and stores it. It is the only
// writer of the session.
func (s *AuthService) Login(ctx context.Context, creds domain.Credentials) error {
	if strings.TrimSpace(creds.Username) == "" {
		return &domain.ValidationError{Field: "username", Message: "username is required"}
	}
	if creds.Password == "" {
		return &domain.ValidationError{Field: "password", Message: "password is required"}
	}

	raw, err := s.gateway.Do(ctx, http.MethodPost, tokenPath, map[string]string{
		"username": strings.TrimSpace(creds.Username),
		"password": creds.Password,
	})
	if err != nil {
		return fmt.Errorf("request token: %w", err)
	}

	var payload struct {
		Access  string `json:"access"`
		Refresh string `json:"refresh"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("decode token response: %w", err)
	}
	if strings.TrimSpace(payload.Access) == "" {
		return errors.New("token response has no access token")
	}

	if err := s.sessions.Set(ctx, domain.Session{AccessToken: payload.Access, RefreshToken: payload.Refresh}); err != nil {
		return fmt.Errorf("store session: %w", err)
	}

	return nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	if err := s.sessions.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (s *AuthService) Register(ctx context.Context, reg domain.Registration) error {
	switch {
	case strings.TrimSpace(reg.Username) == "":
		return &domain.ValidationError{Field: "username", Message: "username is required"}
	case strings.TrimSpace(reg.Email) == "":
		return &domain.ValidationError{Field: "email", Message: "email is required"}
	case reg.Password == "":
		return &domain.ValidationError{Field: "password", Message: "password is required"}
	}

	_, err := s.gateway.Do(ctx, http.MethodPost, registerPath, map[string]string{
		"username": strings.TrimSpace(reg.Username),
		"email":    strings.TrimSpace(reg.Email),
		"password": reg.Password,
	})
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	return nil
}

// RegisterMessage prefers the username field error, then the server detail.
func RegisterMessage(err error) string {
	var serverErr *domain.ServerError
	if errors.As(err, &serverErr) {
		if msg := serverErr.FieldMessage("username"); msg != "" {
			return msg
		}
	}
	return UserMessage(err, RegisterFailedMessage)
}

func (s *AuthService) Whoami(ctx context.Context) *domain.Identity {
	return s.identity.ResolveCurrentUser(ctx)
}

// Status describes the stored session from its token claims. The signature is
// not verified; the result is for display only.
func (s *AuthService) Status(ctx context.Context) (SessionStatus, error) {
	session, err := s.sessions.Get(ctx)
	if err != nil {
		return SessionStatus{}, fmt.Errorf("read session: %w", err)
	}
	if !session.Authenticated() {
		return SessionStatus{}, nil
	}

	status := SessionStatus{LoggedIn: true}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(session.AccessToken, claims); err != nil {
		return status, nil
	}

	status.UserID = claimString(claims, "user_id")
	status.Username = claimString(claims, "username")
	status.TokenType = claimString(claims, "token_type")
	status.IssuedAt = claimTime(claims, "iat")
	status.ExpiresAt = claimTime(claims, "exp")

	return status, nil
}

func claimString(claims jwt.MapClaims, key string) string {
	value, ok := claims[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%.0f", v)
	default:
		return fmt.Sprint(v)
	}
}

func claimTime(claims jwt.MapClaims, key string) time.Time {
	switch v := claims[key].(type) {
	case float64:
		return time.Unix(int64(v), 0).UTC()
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return time.Time{}
		}
		return time.Unix(n, 0).UTC()
	default:
		return time.Time{}
	}
}
