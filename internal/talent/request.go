package talent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/talent-matcher/internal/utils"
)

const (
	contentType   = "application/json"
	requestIDHead = "X-Request-Id"
)

// formFile is a file part of a multipart request.
type formFile struct {
	field    string
	filename string
	data     []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// resolveURL returns absolute references unchanged and joins relative ones
// with the API URL.
func (c *Client) resolveURL(ref string) (string, error) {
	parsed, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", ref, err)
	}
	if parsed.IsAbs() {
		return ref, nil
	}

	return c.baseURL() + "/" + strings.TrimLeft(ref, "/"), nil
}

func (c *Client) newRequest(ctx context.Context, method, ref string, body io.Reader) (*http.Request, error) {
	target, err := c.resolveURL(ref)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, err
	}

	return c.setHeaders(req), nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))
	}
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	req.Header.Set(requestIDHead, uuid.NewString())

	return req
}

func (c *Client) request(req *http.Request) (*http.Response, error) {
	c.logger.Debug("make request",
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHead)),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("got response",
		zap.String("url", req.URL.String()),
		zap.String("request_id", req.Header.Get(requestIDHead)),
		zap.Int("status", resp.StatusCode),
	)

	return resp, nil
}

// do sends the request and decodes a 2xx JSON body into target.
func (c *Client) do(req *http.Request, target any) error {
	resp, err := c.request(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	c.logger.Debug("response body",
		zap.String("request_id", req.Header.Get(requestIDHead)),
		zap.Int("body_length", len(data)),
		zap.String("body_preview", utils.TruncateForLog(string(data), c.MaxLogLength)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       utils.TruncateForLog(string(data), c.MaxLogLength),
		}
	}

	if target == nil {
		return nil
	}

	return decode(data, target)
}

func (c *Client) getJSON(ctx context.Context, ref string, target any) error {
	req, err := c.newRequest(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return err
	}

	return c.do(req, target)
}

func (c *Client) postJSON(ctx context.Context, ref string, payload any, target any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, ref, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	return c.do(req, target)
}

func (c *Client) postFormData(ctx context.Context, ref string, fields [][2]string, file *formFile, target any) error {
	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for _, kv := range fields {
		if err := w.WriteField(kv[0], kv[1]); err != nil {
			return err
		}
	}

	if file != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(file.field), quoteEscaper.Replace(file.filename)))
		header.Set("Content-Type", mimetype.Detect(file.data).String())

		part, err := w.CreatePart(header)
		if err != nil {
			return err
		}
		if _, err := part.Write(file.data); err != nil {
			return err
		}
	}

	if err := w.Close(); err != nil {
		return err
	}

	req, err := c.newRequest(ctx, http.MethodPost, ref, &b)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	return c.do(req, target)
}

// decode unmarshals JSON into generic values and maps them onto target.
// Numeric fields delivered as strings are accepted.
func decode(data []byte, target any) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}

	if err := decoder.Decode(raw); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}
