package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "aicms",
		Short:         "AI CMS client: articles with AI summaries, sentiment, tags and SEO",
		Long:          "aicms talks to the AI CMS backend: log in, browse and edit articles, run AI features on them, generate drafts from a topic and review your AI usage from the terminal.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newLoginCmd(app),
		newLogoutCmd(app),
		newRegisterCmd(app),
		newWhoamiCmd(app),
		newSessionCmd(app),
		newArticleCmd(app),
		newAICmd(app),
		newUsageCmd(app),
	)

	return rootCmd
}
