package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

func newArticleCmd(app *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "article",
		Aliases: []string{"articles"},
		Short:   "Browse and manage articles",
	}

	cmd.AddCommand(
		newArticleListCmd(app),
		newArticleShowCmd(app),
		newArticleCreateCmd(app),
		newArticleEditCmd(app),
		newArticleDeleteCmd(app),
	)

	return cmd
}

func newArticleListCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all articles",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			items, _, err := app.articles.List(cmd.Context())
			if err != nil {
				return errors.New(application.UserMessage(err, "Error fetching articles"))
			}

			if ok, err := format.write(cmd.OutOrStdout(), items); ok {
				return err
			}

			rendered, err := app.articleList(items, app.renderOptions(cmd.OutOrStdout()))
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	format.bind(cmd)

	return cmd
}

func newArticleShowCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArticleID(args[0])
			if err != nil {
				return err
			}

			view := application.NewArticleView(id, app.articleRepo, app.identity, app.newDispatcher(newLoginNavigator()))
			defer view.Close()

			if err := <-view.Load(cmd.Context()); err != nil {
				app.logger.Debug("article_load_failed", zap.Error(err))
				return errors.New(messageOr(view.Snapshot().Message, application.ArticleLoadMessage))
			}
			snapshot := view.Snapshot()

			if ok, err := format.write(cmd.OutOrStdout(), snapshot.Article); ok {
				return err
			}

			rendered, err := app.articleView(snapshot, app.renderOptions(cmd.OutOrStdout()))
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	format.bind(cmd)

	return cmd
}

func newArticleCreateCmd(app *app) *cobra.Command {
	var title string
	var content string
	var contentFile string
	var topic string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an article, optionally drafting its content with AI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if contentFile != "" {
				loaded, err := readContentFile(cmd, contentFile)
				if err != nil {
					return err
				}
				content = loaded
			}

			var (
				article domain.Article
				err     error
			)
			if strings.TrimSpace(topic) == "" {
				article, err = app.articles.Create(cmd.Context(), domain.ArticleDraft{Title: title, Content: content})
				if err != nil {
					return errors.New(application.UserMessage(err, application.CreateFailedMessage))
				}
			} else {
				article, err = createWithGeneratedContent(cmd, app, title, content, topic)
				if err != nil {
					return err
				}
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Article created! (#%s %s)\n", article.ID, article.Title)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Article title")
	cmd.Flags().StringVar(&content, "content", "", "Article content (markdown)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read content from a file, - for stdin")
	cmd.Flags().StringVar(&topic, "topic", "", "Generate the content with AI from this topic")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

// createWithGeneratedContent runs the form flow: generation replaces the
// content, then the article is submitted.
func createWithGeneratedContent(cmd *cobra.Command, app *app, title, content, topic string) (domain.Article, error) {
	navigator := newLoginNavigator()
	form := application.NewCreateForm(app.articleRepo, app.identity, app.newDispatcher(navigator))
	defer form.Close()

	form.SetTitle(title)
	form.SetContent(content)
	form.SetTopic(topic)
	form.Load(cmd.Context())

	err := runTask(cmd.Context(), cmd.ErrOrStderr(), false, "Generating content...", func(ctx context.Context) error {
		_, err := form.Generate(ctx)
		return err
	})
	if err != nil {
		return domain.Article{}, featureError(cmd, app, navigator, err, form.Message())
	}

	article, err := form.Submit(cmd.Context())
	if err != nil {
		return domain.Article{}, errors.New(messageOr(form.Message(), application.CreateFailedMessage))
	}
	return article, nil
}

func newArticleEditCmd(app *app) *cobra.Command {
	var title string
	var content string
	var contentFile string

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change an article's title or content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArticleID(args[0])
			if err != nil {
				return err
			}

			edit := application.EditArticleCommand{ID: id}
			if cmd.Flags().Changed("title") {
				edit.Title = &title
			}
			if cmd.Flags().Changed("content") {
				edit.Content = &content
			}
			if contentFile != "" {
				loaded, err := readContentFile(cmd, contentFile)
				if err != nil {
					return err
				}
				edit.Content = &loaded
			}
			if edit.Title == nil && edit.Content == nil {
				return errors.New("nothing to change: pass --title, --content or --content-file")
			}

			article, err := app.articles.Edit(cmd.Context(), edit)
			if err != nil {
				return errors.New(application.UserMessage(err, "Failed to update article."))
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Article updated! (#%s %s)\n", article.ID, article.Title)
			return err
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content (markdown)")
	cmd.Flags().StringVar(&contentFile, "content-file", "", "Read new content from a file, - for stdin")
	cmd.MarkFlagsMutuallyExclusive("content", "content-file")

	return cmd
}

func newArticleDeleteCmd(app *app) *cobra.Command {
	var confirmation string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an article",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseArticleID(args[0])
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("confirm") {
				confirmation = promptConfirmation(cmd, id)
			}

			err = app.articles.Delete(cmd.Context(), application.DeleteArticleCommand{ID: id, Confirmation: confirmation})
			if err != nil {
				if errors.Is(err, domain.ErrConfirmationMismatch) {
					return errors.New(application.UserMessage(err, ""))
				}
				return errors.New(application.UserMessage(err, "Failed to delete article."))
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), "Article deleted!")
			return err
		},
	}

	cmd.Flags().StringVar(&confirmation, "confirm", "", fmt.Sprintf("Type %q to skip the prompt", domain.DeleteConfirmation))

	return cmd
}

// promptConfirmation asks on an interactive terminal only; piped input never
// confirms a deletion implicitly.
func promptConfirmation(cmd *cobra.Command, id domain.ArticleID) string {
	file, ok := cmd.InOrStdin().(*os.File)
	if !ok || !term.IsTerminal(int(file.Fd())) {
		return ""
	}

	_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Delete article #%s? Type %q to confirm: ", id, domain.DeleteConfirmation)
	line, _ := bufio.NewReader(file).ReadString('\n')
	return strings.TrimSpace(line)
}

func parseArticleID(raw string) (domain.ArticleID, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(raw), "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid article id %q", raw)
	}
	return domain.ArticleID(id), nil
}

func readContentFile(cmd *cobra.Command, path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("read content from stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read content file: %w", err)
	}
	return string(data), nil
}
