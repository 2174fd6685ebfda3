package domain

import "strings"

// FeatureResult is the decoded response of one feature endpoint. Each feature
// has its own concrete type.
type FeatureResult interface {
	Feature() Feature
}

type SummaryResult struct {
	Summary string
}

type SentimentResult struct {
	Sentiment string
}

type TagsResult struct {
	Tags []string
}

type SEOResult struct {
	Suggestions string
}

// GeneratedContent is the draft produced by the generate feature. It belongs
// to the creation form, never to an article aggregate.
type GeneratedContent struct {
	Topic         string
	Content       string
	Tags          []string
	TokensUsed    int64
	EstimatedCost float64
}

func (SummaryResult) Feature() Feature    { return FeatureSummarize }
func (SentimentResult) Feature() Feature  { return FeatureSentiment }
func (TagsResult) Feature() Feature       { return FeatureTags }
func (SEOResult) Feature() Feature        { return FeatureSEO }
func (GeneratedContent) Feature() Feature { return FeatureGenerate }

type SentimentTone string

const (
	SentimentPositive SentimentTone = "positive"
	SentimentNegative SentimentTone = "negative"
	SentimentMixed    SentimentTone = "mixed"
)

// ResultAggregate collects the latest output of each article-scoped feature.
type ResultAggregate struct {
	Summary   string
	Sentiment string
	Tags      []string
	SEO       string
}

// Apply merges a result into the aggregate. The latest write for a feature
// wins; results that do not belong to an article are ignored.
func (a *ResultAggregate) Apply(result FeatureResult) {
	switch r := result.(type) {
	case SummaryResult:
		a.Summary = r.Summary
	case SentimentResult:
		a.Sentiment = r.Sentiment
	case TagsResult:
		a.Tags = append([]string(nil), r.Tags...)
	case SEOResult:
		a.SEO = r.Suggestions
	}
}

func (a ResultAggregate) Empty() bool {
	return a.Summary == "" && a.Sentiment == "" && len(a.Tags) == 0 && a.SEO == ""
}

func (a ResultAggregate) Clone() ResultAggregate {
	clone := a
	if a.Tags != nil {
		clone.Tags = append([]string(nil), a.Tags...)
	}
	return clone
}

func (a ResultAggregate) SentimentTone() SentimentTone {
	lower := strings.ToLower(a.Sentiment)
	switch {
	case strings.Contains(lower, "positive"):
		return SentimentPositive
	case strings.Contains(lower, "negative"):
		return SentimentNegative
	default:
		return SentimentMixed
	}
}
