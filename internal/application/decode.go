package application

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/aicms-cli/internal/domain"
)

type resultDecoder func(raw json.RawMessage) (domain.FeatureResult, error)

// resultDecoders maps each known feature to the decoder for its response
// shape. Unknown features have no decoder and produce no result.
var resultDecoders = map[domain.Feature]resultDecoder{
	domain.FeatureSummarize: decodeSummary,
	domain.FeatureSentiment: decodeSentiment,
	domain.FeatureTags:      decodeTags,
	domain.FeatureSEO:       decodeSEO,
	domain.FeatureGenerate:  decodeGenerated,
}

func decodeResult(feature domain.Feature, raw json.RawMessage) (domain.FeatureResult, error) {
	decoder, ok := resultDecoders[feature]
	if !ok {
		return nil, nil
	}

	result, err := decoder(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s response: %w", feature, err)
	}

	return result, nil
}

func unmarshalObject(raw json.RawMessage, v any) error {
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}

func decodeSummary(raw json.RawMessage) (domain.FeatureResult, error) {
	var payload struct {
		Summary string `json:"summary"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	return domain.SummaryResult{Summary: payload.Summary}, nil
}

func decodeSentiment(raw json.RawMessage) (domain.FeatureResult, error) {
	var payload struct {
		Sentiment string `json:"sentiment"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	return domain.SentimentResult{Sentiment: payload.Sentiment}, nil
}

func decodeTags(raw json.RawMessage) (domain.FeatureResult, error) {
	var payload struct {
		Tags tagList `json:"tags"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	tags := []string(payload.Tags)
	if tags == nil {
		tags = []string{}
	}
	return domain.TagsResult{Tags: tags}, nil
}

func decodeSEO(raw json.RawMessage) (domain.FeatureResult, error) {
	var payload struct {
		Suggestions string `json:"seo_suggestions"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	return domain.SEOResult{Suggestions: payload.Suggestions}, nil
}

func decodeGenerated(raw json.RawMessage) (domain.FeatureResult, error) {
	var payload struct {
		Topic         string          `json:"topic"`
		Content       string          `json:"content"`
		Tags          tagList         `json:"tags"`
		TokensUsed    int64           `json:"tokens_used"`
		EstimatedCost json.RawMessage `json:"estimated_cost"`
	}
	if err := unmarshalObject(raw, &payload); err != nil {
		return nil, err
	}

	return domain.GeneratedContent{
		Topic:         payload.Topic,
		Content:       payload.Content,
		Tags:          []string(payload.Tags),
		TokensUsed:    payload.TokensUsed,
		EstimatedCost: parseCost(payload.EstimatedCost),
	}, nil
}

// tagList accepts a JSON array of strings or one comma separated string.
type tagList []string

func (t *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = list
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return fmt.Errorf("tags must be a list or a string: %w", err)
	}

	out := make([]string, 0)
	for _, tag := range strings.Split(joined, ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	*t = out
	return nil
}

func parseCost(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var number float64
	if err := json.Unmarshal(raw, &number); err == nil {
		return number
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return value
}
