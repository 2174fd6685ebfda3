package application

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newLoadedForm(t *testing.T, repo *mocks.MockArticleRepository, gw *mocks.MockGateway) *CreateForm {
	t.Helper()
	gw.EXPECT().Do(mockAnyContext(), http.MethodGet, "auth/me/", nil).Return(json.RawMessage(`{"id":2,"username":"alice"}`), nil).Once()

	form := NewCreateForm(repo, NewIdentityResolver(gw, nil), NewDispatcher(gw, mocks.NewMockNavigator(t)))
	require.NotNil(t, form.Load(context.Background()))
	return form
}

func TestCreateFormGenerateFillsContent(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	gw := mocks.NewMockGateway(t)
	form := newLoadedForm(t, repo, gw)

	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/generate/", map[string]string{"topic": "rust ownership"}).
		Return(json.RawMessage(`{"content":"X"}`), nil).Once()

	form.SetTitle("Ownership")
	form.SetContent("old text")
	form.SetTopic("rust ownership")

	generated, err := form.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "X", generated.Content)
	assert.Equal(t, "X", form.Content())
}

func TestCreateFormGenerateRequiresTopic(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	gw := mocks.NewMockGateway(t)
	form := newLoadedForm(t, repo, gw)

	form.SetContent("keep me")
	_, err := form.Generate(context.Background())
	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, "Enter a topic", form.Message())
	assert.Equal(t, "keep me", form.Content())
	gw.AssertNotCalled(t, "Do", mock.Anything, http.MethodPost, mock.Anything, mock.Anything)
}

func TestCreateFormGenerateFailureKeepsContent(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	gw := mocks.NewMockGateway(t)
	form := newLoadedForm(t, repo, gw)

	gw.EXPECT().Do(mockAnyContext(), http.MethodPost, "articles/generate/", mock.Anything).
		Return(nil, &domain.ServerError{StatusCode: 500}).Once()

	form.SetTopic("go")
	form.SetContent("mine")
	_, err := form.Generate(context.Background())
	require.Error(t, err)
	assert.Equal(t, GenerateFailedMessage, form.Message())
	assert.Equal(t, "mine", form.Content())
}

func TestCreateFormSubmitCreatesArticle(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	gw := mocks.NewMockGateway(t)
	form := newLoadedForm(t, repo, gw)

	repo.EXPECT().Create(mockAnyContext(), domain.ArticleDraft{Title: "Go", Content: "Body"}).
		Return(domain.Article{ID: 11, Title: "Go"}, nil).Once()

	form.SetTitle("Go")
	form.SetContent("Body")
	article, err := form.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.ArticleID(11), article.ID)
}

func TestCreateFormSubmitRejectsEmptyTitle(t *testing.T) {
	repo := mocks.NewMockArticleRepository(t)
	gw := mocks.NewMockGateway(t)
	form := newLoadedForm(t, repo, gw)

	form.SetContent("Body")
	_, err := form.Submit(context.Background())
	require.ErrorIs(t, err, domain.ErrValidation)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
