package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldAPIURL is the structured log field key for the service base URL.
	FieldAPIURL = "api_url"
	// FieldUser is the structured log field key for the logged in user email.
	FieldUser = "user"
	// FieldCommand is the structured log field key for the running command.
	FieldCommand = "command"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger becomes a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// SessionFields describes where requests go and on whose behalf.
func SessionFields(command, apiURL, user string) []zap.Field {
	return StringFields(
		StringField{Key: FieldCommand, Value: command},
		StringField{Key: FieldAPIURL, Value: apiURL},
		StringField{Key: FieldUser, Value: user},
	)
}

// WithSessionFields attaches SessionFields to the logger.
func WithSessionFields(logger *zap.Logger, command, apiURL, user string) *zap.Logger {
	return WithFields(logger, SessionFields(command, apiURL, user)...)
}
