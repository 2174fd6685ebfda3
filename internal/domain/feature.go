package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// featureName keeps unknown features to a single path segment.
var featureName = regexp.MustCompile(`^[a-z0-9_-]+$`)

type Feature string

const (
	FeatureSummarize Feature = "summarize"
	FeatureSentiment Feature = "sentiment"
	FeatureTags      Feature = "tags"
	FeatureSEO       Feature = "seo"
	FeatureGenerate  Feature = "generate"
)

func KnownFeatures() []Feature {
	return []Feature{FeatureSummarize, FeatureSentiment, FeatureTags, FeatureSEO, FeatureGenerate}
}

func (f Feature) Known() bool {
	switch f {
	case FeatureSummarize, FeatureSentiment, FeatureTags, FeatureSEO, FeatureGenerate:
		return true
	default:
		return false
	}
}

// ArticleScoped reports whether the feature is addressed by an article id.
// Only generate runs before an article exists.
func (f Feature) ArticleScoped() bool {
	return f != FeatureGenerate
}

func ParseFeature(raw string) (Feature, error) {
	feature := Feature(strings.ToLower(strings.TrimSpace(raw)))
	if feature == "" {
		return "", fmt.Errorf("feature is required")
	}
	if !featureName.MatchString(string(feature)) {
		return "", fmt.Errorf("invalid feature %q", raw)
	}

	return feature, nil
}

// FeatureRequest is one AI invocation. It lives for the duration of a
// single dispatch.
type FeatureRequest struct {
	Feature   Feature
	ArticleID ArticleID
	Content   string
	Topic     string
}

func (r FeatureRequest) Validate() error {
	if r.Feature == "" {
		return &ValidationError{Field: "feature", Message: "feature is required"}
	}
	if !featureName.MatchString(string(r.Feature)) {
		return &ValidationError{Field: "feature", Message: fmt.Sprintf("invalid feature %q", r.Feature)}
	}
	if r.Feature == FeatureGenerate {
		if strings.TrimSpace(r.Topic) == "" {
			return &ValidationError{Field: "topic", Message: "Enter a topic"}
		}
		return nil
	}
	if r.ArticleID <= 0 {
		return &ValidationError{Field: "article", Message: "article id is required"}
	}

	return nil
}

func (r FeatureRequest) Path() string {
	if r.Feature == FeatureGenerate {
		return "articles/generate/"
	}
	return fmt.Sprintf("articles/%d/%s/", r.ArticleID, r.Feature)
}

// Payload returns the request body for the feature endpoint, or nil when the
// endpoint needs nothing beyond the article id.
func (r FeatureRequest) Payload() any {
	switch r.Feature {
	case FeatureGenerate:
		return map[string]string{"topic": strings.TrimSpace(r.Topic)}
	case FeatureTags, FeatureSEO:
		return nil
	default:
		return map[string]string{"content": r.Content}
	}
}
