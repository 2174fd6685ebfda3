package rest

import (
	"context"
	"fmt"
	"net/http"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

const usagePath = "usage/"

type UsageRepository struct {
	gateway ports.Gateway
}

var _ ports.UsageRepository = (*UsageRepository)(nil)

func NewUsageRepository(gateway ports.Gateway) *UsageRepository {
	return &UsageRepository{gateway: gateway}
}

// List returns the caller's usage records in server order.
func (r *UsageRepository) List(ctx context.Context) ([]domain.UsageRecord, error) {
	raw, err := r.gateway.Do(ctx, http.MethodGet, usagePath, nil)
	if err != nil {
		return nil, err
	}

	entries, err := decodeList[usageSchema](raw)
	if err != nil {
		return nil, fmt.Errorf("decode usage records: %w", err)
	}

	records := make([]domain.UsageRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, fromUsageSchema(entry))
	}

	return records, nil
}
