package application

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestArticleServiceDeleteRequiresExactConfirmation(t *testing.T) {
	for _, confirmation := range []string{"", "Delete", "delete ", "yes", "DELETE"} {
		t.Run(confirmation, func(t *testing.T) {
			repo := mocks.NewMockArticleRepository(t)
			service := NewArticleService(repo, NewIdentityResolver(mocks.NewMockGateway(t), nil))

			err := service.Delete(context.Background(), DeleteArticleCommand{ID: 9, Confirmation: confirmation})
			require.ErrorIs(t, err, domain.ErrConfirmationMismatch)
			repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		})
	}
}

func TestArticleServiceDeleteWithConfirmation(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().Delete(mockAnyContext(), domain.ArticleID(9)).Return(nil).Once()

	service := NewArticleService(repo, NewIdentityResolver(mocks.NewMockGateway(t), nil))
	require.NoError(t, service.Delete(context.Background(), DeleteArticleCommand{ID: 9, Confirmation: "delete"}))
}

func TestArticleServiceListFlagsOwnedArticles(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().List(mockAnyContext()).Return([]domain.Article{
		{ID: 1, Title: "mine", Author: "bob"},
		{ID: 2, Title: "theirs", Author: "alice"},
	}, nil).Once()

	gw := mocks.NewMockGateway(t)
	gw.EXPECT().Do(mockAnyContext(), http.MethodGet, "auth/me/", nil).Return(json.RawMessage(`{"username":"bob"}`), nil).Once()

	items, user, err := NewArticleService(repo, NewIdentityResolver(gw, nil)).List(context.Background())
	require.NoError(t, err)
	require.NotNil(t, user)
	require.Len(t, items, 2)
	assert.True(t, items[0].Editable)
	assert.False(t, items[1].Editable)
}

func TestArticleServiceListAnonymous(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().List(mockAnyContext()).Return([]domain.Article{{ID: 1, Author: "bob"}}, nil).Once()

	gw := mocks.NewMockGateway(t)
	gw.EXPECT().Do(mockAnyContext(), http.MethodGet, "auth/me/", nil).Return(nil, &domain.ServerError{StatusCode: 401}).Once()

	items, user, err := NewArticleService(repo, NewIdentityResolver(gw, nil)).List(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)
	assert.False(t, items[0].Editable)
}

func TestArticleServiceEditKeepsUnchangedFields(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), domain.ArticleID(4)).Return(domain.Article{ID: 4, Title: "Old", Content: "Body"}, nil).Once()
	repo.EXPECT().Update(mockAnyContext(), domain.ArticleID(4), domain.ArticleDraft{Title: "New", Content: "Body"}).
		Return(domain.Article{ID: 4, Title: "New", Content: "Body"}, nil).Once()

	title := "New"
	got, err := NewArticleService(repo, nil).Edit(context.Background(), EditArticleCommand{ID: 4, Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "New", got.Title)
}

func TestArticleServiceEditRejectsEmptyContent(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), domain.ArticleID(4)).Return(domain.Article{ID: 4, Title: "Old", Content: "Body"}, nil).Once()

	empty := ""
	_, err := NewArticleService(repo, nil).Edit(context.Background(), EditArticleCommand{ID: 4, Content: &empty})
	require.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestArticleServiceGetWrapsErrors(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	repo.EXPECT().GetByID(mockAnyContext(), domain.ArticleID(4)).Return(domain.Article{}, &domain.TransportError{Err: errors.New("refused")}).Once()

	_, err := NewArticleService(repo, nil).Get(context.Background(), 4)
	require.ErrorIs(t, err, domain.ErrTransport)
	assert.Contains(t, err.Error(), "get article 4")
}
