package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bnema/aicms-cli/internal/adapters/render/markdown"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	// redirectGrace is how long past the redirect delay a command waits for
	// the login redirect before exiting.
	redirectGrace  = time.Second
	generatedWidth = 80
)

var errLoginRequired = errors.New("login required")

func newAICmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ai",
		Short: "Run AI features on articles",
	}

	cmd.AddCommand(
		newAIFeatureCmd(app, domain.FeatureSummarize, "summarize <id>", "Summarize an article"),
		newAIFeatureCmd(app, domain.FeatureSentiment, "sentiment <id>", "Analyze an article's sentiment"),
		newAIFeatureCmd(app, domain.FeatureTags, "tags <id>", "Suggest tags for an article"),
		newAIFeatureCmd(app, domain.FeatureSEO, "seo <id>", "Suggest SEO improvements for an article"),
		newAIInvokeCmd(app),
		newAIGenerateCmd(app),
	)

	return cmd
}

func newAIFeatureCmd(app *app, feature domain.Feature, use, short string) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArticleID(args[0])
			if err != nil {
				return err
			}
			return runArticleFeature(cmd, app, id, feature, format)
		},
	}

	format.bind(cmd)

	return cmd
}

func newAIInvokeCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "invoke <feature> <id>",
		Short: "Run any article feature endpoint by name",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			feature, err := domain.ParseFeature(args[0])
			if err != nil {
				return err
			}
			if !feature.ArticleScoped() {
				return errors.New("use `aicms ai generate --topic` to generate content")
			}

			id, err := parseArticleID(args[1])
			if err != nil {
				return err
			}
			return runArticleFeature(cmd, app, id, feature, format)
		},
	}

	format.bind(cmd)

	return cmd
}

// runArticleFeature loads the article view, runs one feature through its
// dispatcher and renders the view with the new result.
func runArticleFeature(cmd *cobra.Command, app *app, id domain.ArticleID, feature domain.Feature, format outputFormat) error {
	navigator := newLoginNavigator()
	view := application.NewArticleView(id, app.articleRepo, app.identity, app.newDispatcher(navigator))
	defer view.Close()

	if err := <-view.Load(cmd.Context()); err != nil {
		app.logger.Debug("article_load_failed", zap.Error(err))
		return errors.New(messageOr(view.Snapshot().Message, application.ArticleLoadMessage))
	}

	var result domain.FeatureResult
	label := fmt.Sprintf("Running %s...", feature)
	err := runTask(cmd.Context(), cmd.ErrOrStderr(), format.structured(), label, func(ctx context.Context) error {
		r, err := view.Invoke(ctx, feature)
		result = r
		return err
	})
	if err != nil {
		return featureError(cmd, app, navigator, err, view.Dispatcher().Message())
	}

	if result == nil {
		app.logger.Debug("ai_feature_no_result", zap.String("feature", string(feature)))
	}

	snapshot := view.Snapshot()
	if ok, err := format.write(cmd.OutOrStdout(), snapshot.Results); ok {
		return err
	}

	rendered, err := app.articleView(snapshot, app.renderOptions(cmd.OutOrStdout()))
	return writeRendered(cmd.OutOrStdout(), rendered, err)
}

func newAIGenerateCmd(app *app) *cobra.Command {
	var topic string
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Draft article content from a topic",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			navigator := newLoginNavigator()
			form := application.NewCreateForm(app.articleRepo, app.identity, app.newDispatcher(navigator))
			defer form.Close()

			form.SetTopic(topic)
			form.Load(cmd.Context())

			var generated domain.GeneratedContent
			err := runTask(cmd.Context(), cmd.ErrOrStderr(), format.structured(), "Generating content...", func(ctx context.Context) error {
				g, err := form.Generate(ctx)
				generated = g
				return err
			})
			if err != nil {
				return featureError(cmd, app, navigator, err, form.Message())
			}

			if ok, err := format.write(cmd.OutOrStdout(), generated); ok {
				return err
			}

			return writeGenerated(cmd, app, generated)
		},
	}

	cmd.Flags().StringVar(&topic, "topic", "", "Topic to write about")
	format.bind(cmd)

	return cmd
}

func writeGenerated(cmd *cobra.Command, app *app, generated domain.GeneratedContent) error {
	opts := app.renderOptions(cmd.OutOrStdout())
	width := opts.Width
	if width <= 0 {
		width = generatedWidth
	}

	lines := []string{
		"AI Generated Content:",
		markdown.Render(generated.Content, width, opts.MarkdownStyle),
	}
	if len(generated.Tags) > 0 {
		lines = append(lines, "Tags: "+strings.Join(generated.Tags, ", "))
	}
	if generated.TokensUsed > 0 {
		lines = append(lines, fmt.Sprintf("tokens: %s  cost: $%.4f", humanize.Comma(generated.TokensUsed), generated.EstimatedCost))
	}

	_, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(lines, "\n"))
	return err
}

// featureError reports a failed AI invocation. An anonymous caller sees the
// login message right away and the command waits for the scheduled redirect.
func featureError(cmd *cobra.Command, app *app, navigator *loginNavigator, err error, message string) error {
	if errors.Is(err, domain.ErrUnauthenticated) {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), application.LoginRequiredMessage)
		if path := navigator.Wait(cmd.Context(), app.config.RedirectDelay+redirectGrace); path != "" {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Redirecting to %s: run `aicms login` to sign in.\n", path)
		}
		return errLoginRequired
	}

	app.logger.Debug("ai_feature_failed", zap.Error(err))
	return errors.New(messageOr(message, application.UserMessage(err, "")))
}

func messageOr(message, fallback string) string {
	if strings.TrimSpace(message) != "" {
		return message
	}
	return fallback
}
