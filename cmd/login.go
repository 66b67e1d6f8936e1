package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/session"
	"github.com/spigell/talent-matcher/internal/talent"
)

var errDevLoginDisabled = errors.New("dev login is disabled")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with the development account and remember the session",
	Run: func(cmd *cobra.Command, _ []string) {
		rt := setup(cmd)

		user, err := login(rt.ctx, rt.client, rt.session, rt.config.DevLogin)
		if err != nil {
			rt.logger.Fatal("login failed", zap.Error(err))
		}

		rt.logger.Info("logged in", zap.String("session_file", rt.session.Path()))
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayUser(user))
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the saved session",
	Run: func(cmd *cobra.Command, _ []string) {
		rt := setup(cmd)

		if err := rt.session.Clear(); err != nil {
			rt.logger.Fatal("logout failed", zap.Error(err))
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}

// login runs the development login and persists the resulting session.
func login(ctx context.Context, client *talent.Client, sess *session.Session, enabled bool) (*talent.User, error) {
	if !enabled {
		return nil, errDevLoginDisabled
	}

	resp, err := client.DevLogin(ctx)
	if err != nil {
		return nil, err
	}

	sess.Set(resp.Token, resp.User)
	if err := sess.Save(); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	return sess.User(), nil
}

func displayUser(user *talent.User) string {
	if user == nil {
		return "unknown user"
	}
	if user.Name == "" {
		return user.Email
	}
	if user.Email == "" {
		return user.Name
	}
	return fmt.Sprintf("%s (%s)", user.Name, user.Email)
}
