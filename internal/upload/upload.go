// Package upload validates resume files before they are sent anywhere.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultMaxFileSize int64 = 10 * 1024 * 1024
)

// DefaultAllowedTypes are the accepted extensions, dot included.
var DefaultAllowedTypes = []string{".txt", ".pdf", ".doc", ".docx"}

// ValidationError is a user-facing rejection of a file.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

type Validator struct {
	MaxFileSize  int64
	AllowedTypes []string
}

// NewValidator normalizes the allow-list: entries are lower-cased, prefixed with
// a dot when missing, and comma separated entries are split.
func NewValidator(maxFileSize int64, allowedTypes []string) *Validator {
	if maxFileSize <= 0 {
		maxFileSize = DefaultMaxFileSize
	}

	types := NormalizeTypes(allowedTypes)
	if len(types) == 0 {
		types = append(types, DefaultAllowedTypes...)
	}

	return &Validator{MaxFileSize: maxFileSize, AllowedTypes: types}
}

func NormalizeTypes(raw []string) []string {
	types := make([]string, 0, len(raw))
	seen := make(map[string]struct{})

	for _, entry := range raw {
		for _, t := range strings.Split(entry, ",") {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if !strings.HasPrefix(t, ".") {
				t = "." + t
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			types = append(types, t)
		}
	}

	return types
}

// Check validates a file by name and size.
func (v *Validator) Check(name string, size int64) error {
	if size > v.MaxFileSize {
		return &ValidationError{
			Message: fmt.Sprintf("File size must be less than %.1fMB", float64(v.MaxFileSize)/1024/1024),
		}
	}

	ext := Extension(name)
	for _, allowed := range v.AllowedTypes {
		if ext == allowed {
			return nil
		}
	}

	return &ValidationError{
		Message: fmt.Sprintf("File type not supported. Allowed types: %s", strings.Join(v.AllowedTypes, ", ")),
	}
}

// CheckFile stats the file at path and validates it.
func (v *Validator) CheckFile(path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat resume file: %w", err)
	}
	if info.IsDir() {
		return nil, &ValidationError{Message: fmt.Sprintf("%s is a directory", filepath.Base(path))}
	}

	if err := v.Check(info.Name(), info.Size()); err != nil {
		return nil, err
	}

	return info, nil
}

// Extension returns the lower-cased last extension of name, dot included.
// Names without a dot yield "." plus the whole lower-cased name.
func Extension(name string) string {
	base := filepath.Base(name)
	if idx := strings.LastIndex(base, "."); idx != -1 {
		return strings.ToLower(base[idx:])
	}
	return "." + strings.ToLower(base)
}

// DefaultTitle derives a title from a file name by dropping its extension.
func DefaultTitle(name string) string {
	base := filepath.Base(name)
	if idx := strings.LastIndex(base, "."); idx > 0 {
		return base[:idx]
	}
	return base
}

// IsValidationError reports whether err is a local validation rejection.
func IsValidationError(err error) bool {
	var target *ValidationError
	return errors.As(err, &target)
}
