package cmd

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/logger"
	"github.com/spigell/talent-matcher/internal/secrets"
	"github.com/spigell/talent-matcher/internal/session"
	"github.com/spigell/talent-matcher/internal/talent"
	"github.com/spigell/talent-matcher/internal/upload"
)

// runtime is everything a command needs. It is built once per invocation.
type runtime struct {
	ctx       context.Context
	logger    *zap.Logger
	config    *Config
	session   *session.Session
	client    *talent.Client
	validator *upload.Validator
}

// setup builds the runtime for a command and exits on any error.
func setup(cmd *cobra.Command) *runtime {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	lg, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		lg.Fatal("getting a config", zap.Error(err))
	}

	lg.Debug("starting with config",
		zap.String("api_url", config.APIURL),
		zap.Duration("timeout", config.Timeout),
		zap.String("session_file", config.SessionFile),
		zap.Bool("dev_login", config.DevLogin),
	)

	sess, err := openSession(config.SessionFile)
	if err != nil {
		lg.Fatal("loading session", zap.Error(err))
	}

	var user string
	if u := sess.User(); u != nil {
		user = u.Email
	}
	lg = logger.WithSessionFields(lg, cmd.Name(), config.APIURL, user)

	client, err := newClient(config, sess, lg)
	if err != nil {
		lg.Fatal("creating a client",
			zap.Error(err),
			zap.String("hint", "set TALENT_MATCHER_TOKEN_FILE or the 'token-file' key, or run the login command"),
		)
	}

	return &runtime{
		ctx:       ctx,
		logger:    lg,
		config:    config,
		session:   sess,
		client:    client,
		validator: upload.NewValidator(config.Upload.MaxFileSize, config.Upload.AllowedTypes),
	}
}

// openSession loads the session from path, or from the default location.
func openSession(path string) (*session.Session, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		var err error
		if path, err = session.DefaultPath(); err != nil {
			return nil, err
		}
	}

	sess := session.New(path)
	if err := sess.Load(); err != nil {
		return nil, fmt.Errorf("loading session from %s: %w", path, err)
	}

	return sess, nil
}

// newClient returns a client authenticated by the configured static token,
// falling back to the session token.
func newClient(config *Config, sess *session.Session, lg *zap.Logger) (*talent.Client, error) {
	token, err := secrets.LoadOptional(secrets.Source{
		Name:  "api token",
		Value: config.Token,
		File:  config.TokenFile,
	})
	if err != nil {
		return nil, err
	}

	var tokens talent.TokenSource = sess
	if token != "" {
		lg.Debug("using static api token instead of the session")
		tokens = talent.StaticToken(token)
	}

	client := talent.New(lg, tokens, config.Timeout)

	if config.APIURL != "" {
		client.APIURL = config.APIURL
	}
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.MaxLogLength > 0 {
		client.MaxLogLength = config.MaxLogLength
	}

	return client, nil
}
