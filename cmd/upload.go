package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/upload"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file>",
	Short: "Upload a resume file",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := setup(cmd)

		title, _ := cmd.Flags().GetString("title")

		resume, err := uploadFile(rt.ctx, rt.client, rt.validator, args[0], title)
		if err != nil {
			if upload.IsValidationError(err) {
				rt.logger.Fatal("file rejected", zap.String("file", args[0]), zap.String("reason", err.Error()))
			}
			rt.logger.Fatal("uploading resume", zap.Error(err))
		}

		rt.logger.Info("resume uploaded", zap.Int("resume_id", resume.ID))
		fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %q (id %d)\n", resume.Title, resume.ID)
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)

	uploadCmd.Flags().StringP("title", "t", "", "resume title (default is the file name without extension)")
}

// uploadFile validates the file locally and sends it. Rejected files never
// reach the network.
func uploadFile(ctx context.Context, client *talent.Client, validator *upload.Validator, path, title string) (*talent.Resume, error) {
	path = strings.TrimSpace(path)
	if _, err := validator.CheckFile(path); err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	if strings.TrimSpace(title) == "" {
		title = upload.DefaultTitle(name)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	return client.UploadResume(ctx, title, name, f)
}
