package application

import (
	"context"
	"fmt"

	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/bnema/aicms-cli/internal/ports"
)

type UsageService struct {
	usage ports.UsageRepository
}

func NewUsageService(usage ports.UsageRepository) *UsageService {
	return &UsageService{usage: usage}
}

func (s *UsageService) List(ctx context.Context) ([]domain.UsageRecord, error) {
	records, err := s.usage.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list usage: %w", err)
	}
	return records, nil
}

type UsageTotals struct {
	Requests   int
	TokensUsed int64
	Cost       float64
}

func SummarizeUsage(records []domain.UsageRecord) UsageTotals {
	totals := UsageTotals{Requests: len(records)}
	for _, record := range records {
		totals.TokensUsed += record.TokensUsed
		totals.Cost += record.EstimatedCost
	}
	return totals
}
