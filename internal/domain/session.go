package domain

import "strings"

// Session is the credential pair issued by the token endpoint. The refresh
// token is stored alongside the access token but never exchanged.
type Session struct {
	AccessToken  string
	RefreshToken string
}

func (s Session) Authenticated() bool {
	return strings.TrimSpace(s.AccessToken) != ""
}

type Credentials struct {
	Username string
	Password string
}

type Registration struct {
	Username string
	Email    string
	Password string
}

// Identity is the caller as reported by the backend. A nil *Identity means
// anonymous, including when resolution failed.
type Identity struct {
	ID       int64
	Username string
	Email    string
}
