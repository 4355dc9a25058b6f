package attachment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/iw2rmb/zinc"
)

// ErrUploadStatus reports a non-2xx response from the upload endpoint or
// the storage URL.
var ErrUploadStatus = errors.New("attachment: unexpected status")

// StatusError carries the failing status code. It matches ErrUploadStatus.
type StatusError struct {
	Method string
	URL    string
	Code   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("attachment: %s %s: status %d", e.Method, e.URL, e.Code)
}

func (e *StatusError) Is(target error) bool { return target == ErrUploadStatus }

// Target is the upload endpoint's answer: where the bytes go and what the
// file is called once stored.
type Target struct {
	Path     string `json:"uploadPath"`
	URL      string `json:"uploadUrl"`
	Filename string `json:"originalFilename"`
}

// Name is the resolved file name recorded for the form.
func (t Target) Name() string {
	if t.Path != "" {
		return t.Path
	}
	return t.Filename
}

// Uploader stores a file and reports where it went.
type Uploader interface {
	Upload(ctx context.Context, f File) (Target, error)
}

type ClientConfig struct {
	// Endpoint receives the multipart target request.
	Endpoint string

	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
}

// Client talks to an upload endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, errors.New("attachment: endpoint is required")
	}
	u, err := url.Parse(cfg.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("attachment: invalid endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("attachment: endpoint %q must be absolute", cfg.Endpoint)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: cfg.Endpoint, httpClient: httpClient}, nil
}

// Upload requests a target for f and then sends its bytes there.
func (c *Client) Upload(ctx context.Context, f File) (Target, error) {
	t, err := c.RequestTarget(ctx, f)
	if err != nil {
		return Target{}, err
	}
	if err := c.Put(ctx, t.URL, f); err != nil {
		return Target{}, err
	}
	return t, nil
}

// RequestTarget posts the file's metadata as a multipart form.
func (c *Client) RequestTarget(ctx context.Context, f File) (Target, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, field := range [][2]string{
		{"filename", f.Name},
		{"size", strconv.Itoa(f.Size())},
		{"mimeType", f.MIMEType},
	} {
		if err := w.WriteField(field[0], field[1]); err != nil {
			return Target{}, fmt.Errorf("attachment: encode form: %w", err)
		}
	}
	if err := w.Close(); err != nil {
		return Target{}, fmt.Errorf("attachment: encode form: %w", err)
	}

	respBody, err := c.do(ctx, http.MethodPost, c.endpoint, w.FormDataContentType(), &body)
	if err != nil {
		return Target{}, err
	}

	var t Target
	if err := json.Unmarshal(respBody, &t); err != nil {
		return Target{}, fmt.Errorf("attachment: decode target: %w", err)
	}
	if t.URL == "" {
		return Target{}, errors.New("attachment: target has no upload url")
	}
	return t, nil
}

// Put sends the raw bytes of f to rawURL.
func (c *Client) Put(ctx context.Context, rawURL string, f File) error {
	_, err := c.do(ctx, http.MethodPut, rawURL, f.MIMEType, bytes.NewReader(f.Data))
	return err
}

func (c *Client) do(ctx context.Context, method, rawURL, contentType string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("attachment: create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("User-Agent", zinc.UserAgent())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("attachment: %s %s: %w", method, rawURL, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("attachment: read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Method: method, URL: rawURL, Code: resp.StatusCode}
	}
	return respBody, nil
}
