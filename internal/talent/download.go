package talent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spigell/talent-matcher/internal/utils"
)

// Download streams the file behind fileURL into w and returns the number of
// bytes written. fileURL may be absolute or relative to the API URL.
func (c *Client) Download(ctx context.Context, fileURL string, w io.Writer) (int64, error) {
	if strings.TrimSpace(fileURL) == "" {
		return 0, errors.New("download: file url is empty")
	}

	req, err := c.newRequest(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	req.Header.Del("Accept")

	resp, err := c.request(req)
	if err != nil {
		return 0, fmt.Errorf("download: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, int64(c.MaxLogLength)))
		return 0, fmt.Errorf("download: %w", &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       utils.TruncateForLog(string(body), c.MaxLogLength),
		})
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("download: %w", err)
	}

	return n, nil
}
