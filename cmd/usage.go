package cmd

import (
	"context"
	"errors"

	usagerender "github.com/bnema/aicms-cli/internal/adapters/render/usage"
	"github.com/bnema/aicms-cli/internal/application"
	"github.com/bnema/aicms-cli/internal/domain"
	"github.com/spf13/cobra"
)

type usageReport struct {
	Records []domain.UsageRecord
	Totals  application.UsageTotals
}

func newUsageCmd(app *app) *cobra.Command {
	var format outputFormat

	cmd := &cobra.Command{
		Use:     "usage",
		Aliases: []string{"dashboard"},
		Short:   "Show your AI usage and estimated cost",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var records []domain.UsageRecord
			err := runTask(cmd.Context(), cmd.ErrOrStderr(), format.structured(), "Fetching AI usage...", func(ctx context.Context) error {
				list, err := app.usage.List(ctx)
				records = list
				return err
			})
			if err != nil {
				return errors.New(application.UserMessage(err, "Failed to load AI usage."))
			}

			report := usageReport{Records: records, Totals: application.SummarizeUsage(records)}
			if ok, err := format.write(cmd.OutOrStdout(), report); ok {
				return err
			}

			rendered, err := app.usageRenderer(records, usagerender.RenderOptions{Now: app.now()})
			return writeRendered(cmd.OutOrStdout(), rendered, err)
		},
	}

	format.bind(cmd)

	return cmd
}
