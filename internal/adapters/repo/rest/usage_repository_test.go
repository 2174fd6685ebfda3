package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/bnema/aicms-cli/internal/domain"
	portmocks "github.com/bnema/aicms-cli/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUsageRepositoryListKeepsServerOrderAndDecodesCosts(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockGateway(t)
	gateway.EXPECT().Do(mock.Anything, http.MethodGet, "usage/", nil).Return(json.RawMessage(`[
		{"id": 3, "feature": "summarize", "article_title": "Go", "tokens_used": 120, "estimated_cost": "0.0012", "created_at": "2026-02-14T11:00:00Z"},
		{"id": 1, "feature": "generate", "article_title": null, "tokens_used": 900, "estimated_cost": 0.5},
		{"id": 2, "feature": "tags", "article": "Legacy", "tokens_used": 10, "estimated_cost": null},
		{"id": 4, "feature": "seo", "article": 12, "tokens_used": 40, "estimated_cost": "0.0004"},
		{"id": 5, "feature": "sentiment", "article": {"id": 9, "title": "Nested"}, "tokens_used": 5}
	]`), nil).Once()

	records, err := NewUsageRepository(gateway).List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)

	assert.Equal(t, []int64{3, 1, 2, 4, 5}, []int64{records[0].ID, records[1].ID, records[2].ID, records[3].ID, records[4].ID})
	assert.Equal(t, domain.FeatureSummarize, records[0].Feature)
	assert.InDelta(t, 0.0012, records[0].EstimatedCost, 1e-9)
	assert.Equal(t, "$0.0012", records[0].CostLabel())
	assert.Equal(t, "N/A", records[1].ArticleLabel())
	assert.InDelta(t, 0.5, records[1].EstimatedCost, 1e-9)
	assert.Equal(t, "Legacy", records[2].ArticleLabel())
	assert.Zero(t, records[2].EstimatedCost)
	assert.Equal(t, "#12", records[3].ArticleLabel())
	assert.Equal(t, "Nested", records[4].ArticleLabel())
}

func TestUsageRepositoryListReportsArrayDecodeError(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockGateway(t)
	gateway.EXPECT().Do(mock.Anything, http.MethodGet, "usage/", nil).Return(json.RawMessage(`[{"id": "x"}]`), nil).Once()

	_, err := NewUsageRepository(gateway).List(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "decode usage records")
	assert.NotContains(t, err.Error(), "Results")
}

func TestUsageRepositoryListEmpty(t *testing.T) {
	t.Parallel()

	gateway := portmocks.NewMockGateway(t)
	gateway.EXPECT().Do(mock.Anything, http.MethodGet, "usage/", nil).Return(json.RawMessage(`[]`), nil).Once()

	records, err := NewUsageRepository(gateway).List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFlexibleFloatRejectsGarbage(t *testing.T) {
	t.Parallel()

	var f flexibleFloat
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &f))
}
