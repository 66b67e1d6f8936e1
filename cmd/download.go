package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/dashboard"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/transfer"
)

var errNoFileURL = errors.New("resume has no file url")

var downloadCmd = &cobra.Command{
	Use:   "download <resume id>",
	Short: "Download the original file of a resume",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := setup(cmd)

		id, err := strconv.Atoi(args[0])
		if err != nil {
			rt.logger.Fatal("parsing resume id", zap.String("id", args[0]), zap.Error(err))
		}

		resumes, err := rt.client.ListResumes(rt.ctx)
		if err != nil {
			rt.logger.Fatal("getting resumes", zap.Error(err))
		}

		resume := resumes.FindByID(id)
		if resume == nil {
			rt.logger.Fatal("resume with given id not found",
				zap.Int("resume_id", id),
				zap.Strings("existed resumes titles", resumes.Titles()),
			)
		}

		entry := dashboard.CatalogEntry{Resume: *resume}
		path, err := saveFile(rt.ctx, rt.client, rt.config.DownloadDir, entry.File())
		if err != nil {
			rt.logger.Fatal("downloading resume", zap.Error(err))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Saved %s\n", path)
	},
}

func init() {
	rootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().StringP("output-dir", "o", "", "directory to save files to (default is the download-dir setting)")
	viper.BindPFlag("download-dir", downloadCmd.Flags().Lookup("output-dir"))
}

// saveFile downloads the file behind ref into dir.
func saveFile(ctx context.Context, client *talent.Client, dir string, ref dashboard.FileRef) (string, error) {
	if ref.URL == "" {
		return "", errNoFileURL
	}

	return transfer.Save(ctx, dir, ref.Filename, func(ctx context.Context, w io.Writer) (int64, error) {
		return client.Download(ctx, ref.URL, w)
	})
}
