package domain

import (
	"fmt"
	"strings"
	"time"
)

type UsageRecord struct {
	ID            int64
	Feature       Feature
	ArticleTitle  string
	TokensUsed    int64
	EstimatedCost float64
	CreatedAt     time.Time
}

func (r UsageRecord) ArticleLabel() string {
	if title := strings.TrimSpace(r.ArticleTitle); title != "" {
		return title
	}
	return "N/A"
}

func (r UsageRecord) CostLabel() string {
	return fmt.Sprintf("$%.4f", r.EstimatedCost)
}
