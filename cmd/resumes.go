package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/dashboard"
)

var resumesCmd = &cobra.Command{
	Use:     "resumes",
	Aliases: []string{"ls"},
	Short:   "List every uploaded resume",
	Run: func(cmd *cobra.Command, _ []string) {
		rt := setup(cmd)

		resumes, err := rt.client.ListResumes(rt.ctx)
		if err != nil {
			rt.logger.Fatal("getting resumes", zap.Error(err))
		}

		rt.logger.Info("getting resumes", zap.Int("count", resumes.Len()))

		view := dashboard.New(rt.logger)
		view.SetCatalog(resumes)

		if err := view.Render(cmd.OutOrStdout()); err != nil {
			rt.logger.Fatal("rendering resumes", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(resumesCmd)
}
