package application

import (
	"time"

	"github.com/bnema/aicms-cli/internal/domain"
)

// ArticleSnapshot is a consistent copy of an article view's state.
type ArticleSnapshot struct {
	Article  *domain.Article
	Identity *domain.Identity
	Results  domain.ResultAggregate
	InFlight domain.Feature
	Message  string
}

func (s ArticleSnapshot) Editable() bool {
	return s.Article != nil && s.Article.OwnedBy(s.Identity)
}

type ArticleListItem struct {
	Article  domain.Article
	Editable bool
}

type SessionStatus struct {
	LoggedIn  bool
	UserID    string
	Username  string
	TokenType string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (s SessionStatus) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
