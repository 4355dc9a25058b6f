// Package commandsource loads canned responses for the command palette
// from a remote endpoint or a local file.
package commandsource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"
	"gopkg.in/yaml.v3"

	"github.com/iw2rmb/zinc"
	"github.com/iw2rmb/zinc/internal/logging"
	"github.com/iw2rmb/zinc/trigger"
)

// ErrStatus reports a non-2xx response from the command source.
var ErrStatus = errors.New("commandsource: unexpected status")

// Response is one canned response. Content is HTML.
type Response struct {
	Title   string   `json:"title" yaml:"title"`
	Content string   `json:"content" yaml:"content"`
	Command string   `json:"command" yaml:"command"`
	Labels  []string `json:"labels,omitempty" yaml:"labels,omitempty"`
}

// Client fetches responses over HTTP.
type Client struct {
	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client
}

// Fetch GETs uri and decodes a JSON array of responses.
func (c Client) Fetch(ctx context.Context, uri string) ([]Response, error) {
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return nil, fmt.Errorf("commandsource: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", zinc.UserAgent())

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("commandsource: GET %s: %w", uri, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: GET %s: %d", ErrStatus, uri, resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("commandsource: read response: %w", err)
	}

	var out []Response
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("commandsource: decode %s: %w", uri, err)
	}
	return out, nil
}

// LoadFile reads responses from a YAML or JSON file. YAML is a superset
// of JSON, so one decoder serves both.
func LoadFile(path string) ([]Response, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("commandsource: %w", err)
	}
	var out []Response
	if err := yaml.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("commandsource: parse %s: %w", path, err)
	}
	return out, nil
}

// Candidates turns responses into palette entries that insert their
// content.
func Candidates(rs []Response) []trigger.Candidate {
	out := make([]trigger.Candidate, 0, len(rs))
	for _, r := range rs {
		if r.Title == "" {
			continue
		}
		out = append(out, trigger.Candidate{
			Icon:   "quick_phrases",
			Label:  r.Title,
			Format: trigger.FormatInsert,
			Value:  r.Content,
			Labels: append([]string(nil), r.Labels...),
		})
	}
	return out
}

// Fetcher is the remote half of a Source.
type Fetcher interface {
	Fetch(ctx context.Context, uri string) ([]Response, error)
}

// LoadedMsg carries the responses a Source has after a refresh.
type LoadedMsg struct {
	URI       string
	Responses []Response
	Err       error
}

// Source keeps the last list fetched from URI. A failed fetch leaves the
// previous list in place.
type Source struct {
	URI     string
	Fetcher Fetcher
	Logger  *log.Logger

	group singleflight.Group

	mu   sync.Mutex
	last []Response
}

func NewSource(uri string, f Fetcher, logger *log.Logger) *Source {
	if f == nil {
		f = Client{}
	}
	return &Source{URI: uri, Fetcher: f, Logger: logging.OrDiscard(logger)}
}

// Refresh fetches the list. Concurrent calls share one request. On error
// the previous list is returned together with the error.
func (s *Source) Refresh(ctx context.Context) ([]Response, error) {
	v, err, _ := s.group.Do(s.URI, func() (any, error) {
		return s.Fetcher.Fetch(ctx, s.URI)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.logger().Error("fetching canned responses", "uri", s.URI, "err", err)
		return cloneResponses(s.last), err
	}
	s.last = cloneResponses(v.([]Response))
	return cloneResponses(s.last), nil
}

// Responses returns the last good list.
func (s *Source) Responses() []Response {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneResponses(s.last)
}

// Load returns a command that refreshes the source and reports a LoadedMsg.
func (s *Source) Load(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		rs, err := s.Refresh(ctx)
		return LoadedMsg{URI: s.URI, Responses: rs, Err: err}
	}
}

func (s *Source) logger() *log.Logger {
	if s.Logger == nil {
		return logging.Discard()
	}
	return s.Logger
}

func cloneResponses(rs []Response) []Response {
	if rs == nil {
		return nil
	}
	out := make([]Response, len(rs))
	for i, r := range rs {
		r.Labels = append([]string(nil), r.Labels...)
		out[i] = r
	}
	return out
}
