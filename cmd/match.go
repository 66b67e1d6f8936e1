package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/dashboard"
)

var matchCmd = &cobra.Command{
	Use:   "match [job description]",
	Short: "Find quality matches for a job description",
	Long: `Find quality matches for a job description.

The description is taken from the arguments, from --file, or from stdin
when --file is "-". Poor matches are hidden.`,
	Run: func(cmd *cobra.Command, args []string) {
		rt := setup(cmd)

		file, _ := cmd.Flags().GetString("file")
		details, _ := cmd.Flags().GetBool("details")

		jd, err := readJobDescription(args, file, cmd.InOrStdin())
		if err != nil {
			rt.logger.Fatal("reading job description", zap.Error(err))
		}

		result, err := rt.client.MatchJobDescription(rt.ctx, jd)
		if err != nil {
			rt.logger.Fatal("matching resumes", zap.Error(err))
		}

		view := dashboard.New(rt.logger)
		view.MatchSucceeded(result)

		out := cmd.OutOrStdout()
		if err := view.Render(out); err != nil {
			rt.logger.Fatal("rendering matches", zap.Error(err))
		}

		if !details {
			return
		}

		for _, it := range view.Items() {
			fmt.Fprintln(out, strings.Repeat("-", 40))
			if err := view.Detail(out, it.ResumeID()); err != nil {
				rt.logger.Fatal("rendering match details", zap.Error(err))
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("file", "f", "", `read the job description from a file, "-" for stdin`)
	matchCmd.Flags().Bool("details", false, "show every matching section of each match")
}

// readJobDescription returns the description from a file or the arguments.
// Blank input is left for the client to reject.
func readJobDescription(args []string, file string, stdin io.Reader) (string, error) {
	switch strings.TrimSpace(file) {
	case "":
		return strings.Join(args, " "), nil
	case "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", file, err)
		}
		return string(data), nil
	}
}
