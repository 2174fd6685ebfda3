package domain

import (
	"fmt"
	"strings"
	"time"
)

type ArticleID int64

func (id ArticleID) String() string {
	return fmt.Sprintf("%d", int64(id))
}

const excerptLength = 100

// DeleteConfirmation is the exact input required before an article is deleted.
const DeleteConfirmation = "delete"

type Article struct {
	ID        ArticleID
	Title     string
	Author    string
	Content   string
	Summary   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Excerpt returns the stored summary, or the first runes of the content when
// no summary exists.
func (a Article) Excerpt() string {
	if summary := strings.TrimSpace(a.Summary); summary != "" {
		return summary
	}

	runes := []rune(a.Content)
	if len(runes) > excerptLength {
		runes = runes[:excerptLength]
	}
	return string(runes)
}

func (a Article) OwnedBy(identity *Identity) bool {
	if identity == nil {
		return false
	}
	return identity.Username != "" && identity.Username == a.Author
}

type ArticleDraft struct {
	Title   string
	Content string
}

func (d ArticleDraft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(d.Content) == "" {
		return &ValidationError{Field: "content", Message: "content is required"}
	}

	return nil
}
