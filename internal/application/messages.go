package application

import (
	"errors"

	"github.com/bnema/aicms-cli/internal/domain"
)

const (
	LoginRequiredMessage  = "Please login first to use AI features."
	NetworkErrorMessage   = "Network error. Is the backend running?"
	ServerErrorMessage    = "Something went wrong on the server."
	ArticleLoadMessage    = "Failed to load article. Check server."
	GenerateFailedMessage = "AI generation failed"
	CreateFailedMessage   = "Error creating article"
	EmptyUsageMessage     = "No AI usage yet. Start generating content to see insights here!"
)

// UserMessage turns err into the short text shown next to the view that
// produced it. Field-level messages win over the generic server message;
// fallback is used when the server said nothing useful.
func UserMessage(err error, fallback string) string {
	if err == nil {
		return ""
	}
	if fallback == "" {
		fallback = ServerErrorMessage
	}

	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return validationErr.Message
	}

	var serverErr *domain.ServerError
	if errors.As(err, &serverErr) {
		if serverErr.Message != "" {
			return serverErr.Message
		}
		if _, msg := serverErr.FirstFieldMessage(); msg != "" {
			return msg
		}
		return fallback
	}

	switch {
	case errors.Is(err, domain.ErrTransport):
		return NetworkErrorMessage
	case errors.Is(err, domain.ErrUnauthenticated):
		return LoginRequiredMessage
	case errors.Is(err, domain.ErrFeatureBusy):
		return "Another AI feature is still running."
	case errors.Is(err, domain.ErrConfirmationMismatch):
		return `Type "` + domain.DeleteConfirmation + `" to confirm deletion.`
	}

	return fallback
}
