package cloud

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/containerd/errdefs"
	"github.com/google/uuid"
	"github.com/jakoblorz/go-leancloud/internal/models"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

var _ ProjectDirectory = (*Client)(nil)

// ErrAPITokenNotFound is returned when no API token is configured
var ErrAPITokenNotFound = fmt.Errorf("LEANCLOUD_API_TOKEN environment variable not found")

// RequestIDHeader carries a per-request id so calls can be traced server side
const RequestIDHeader = "X-Request-ID"

// HTTPClient abstracts HTTP calls for testing
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// APIError is a request the service answered with a failure
type APIError struct {
	Endpoint   string
	StatusCode int
	Messages   []string
}

func (e *APIError) Error() string {
	if len(e.Messages) == 0 {
		return fmt.Sprintf("%s: request failed with status %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s", e.Endpoint, strings.Join(e.Messages, "; "))
}

// Unwrap classifies the failure as one of the errdefs kinds so callers can
// use errdefs.IsNotFound and friends. The service reports unknown projects
// with a success=false body, so messages are inspected as well.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return errdefs.ErrUnauthenticated
	case e.StatusCode == http.StatusForbidden:
		return errdefs.ErrPermissionDenied
	case e.StatusCode == http.StatusNotFound:
		return errdefs.ErrNotFound
	case e.StatusCode == http.StatusTooManyRequests:
		return errdefs.ErrResourceExhausted
	case e.StatusCode >= http.StatusInternalServerError:
		return errdefs.ErrUnavailable
	}
	for _, msg := range e.Messages {
		if strings.Contains(strings.ToLower(msg), "not found") {
			return errdefs.ErrNotFound
		}
	}
	return errdefs.ErrUnknown
}

// Client implements ProjectDirectory against the project REST API
type Client struct {
	baseURL    string
	httpClient HTTPClient
	logger     zerolog.Logger
}

// NewClient creates a client that authenticates with a bearer token
func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	ctx := context.Background()
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	tc := oauth2.NewClient(ctx, ts)
	tc.Timeout = timeout

	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: tc,
		logger:     logger.With().Str("component", "cloud").Logger(),
	}
}

// NewClientFromToken is NewClient but fails when token is empty
func NewClientFromToken(baseURL, token string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	if token == "" {
		return nil, ErrAPITokenNotFound
	}
	return NewClient(baseURL, token, timeout, logger), nil
}

// SetHTTPClient sets a custom HTTP client (for testing)
func (c *Client) SetHTTPClient(hc HTTPClient) {
	c.httpClient = hc
}

func (c *Client) Create(ctx context.Context, name string, language models.Language, environment *int) (*models.RemoteProject, error) {
	var resp projectsResponse
	req := createProjectRequest{Name: name, Language: language.String(), Environment: environment}
	if err := c.post(ctx, "projects/create", req, &resp); err != nil {
		return nil, err
	}
	if len(resp.Projects) == 0 {
		return nil, fmt.Errorf("projects/create: response contains no project")
	}
	return convertProject(resp.Projects[0]), nil
}

func (c *Client) Get(ctx context.Context, id int) (*models.RemoteProject, error) {
	var resp projectsResponse
	if err := c.post(ctx, "projects/read", projectIDRequest{ProjectID: id}, &resp); err != nil {
		return nil, err
	}
	for _, p := range resp.Projects {
		if p.ProjectID == id {
			return convertProject(p), nil
		}
	}
	return nil, fmt.Errorf("projects/read: project %d not found", id)
}

func (c *Client) Update(ctx context.Context, id int, update models.ProjectUpdate) error {
	req := updateProjectRequest{
		ProjectID:   id,
		Description: update.Description,
		Parameters:  toWireParameters(update.Parameters),
		Engine:      update.Engine,
		Environment: update.Environment,
	}
	return c.post(ctx, "projects/update", req, nil)
}

func (c *Client) AddLibrary(ctx context.Context, projectID, libraryID int) error {
	return c.post(ctx, "projects/library/create", libraryRequest{ProjectID: projectID, LibraryID: libraryID}, nil)
}

func (c *Client) DeleteLibrary(ctx context.Context, projectID, libraryID int) error {
	return c.post(ctx, "projects/library/delete", libraryRequest{ProjectID: projectID, LibraryID: libraryID}, nil)
}

func (c *Client) ListFiles(ctx context.Context, projectID int) ([]*models.RemoteFile, error) {
	var resp filesResponse
	if err := c.post(ctx, "files/read", projectIDRequest{ProjectID: projectID}, &resp); err != nil {
		return nil, err
	}

	files := make([]*models.RemoteFile, 0, len(resp.Files))
	for _, f := range resp.Files {
		files = append(files, convertFile(f))
	}
	return files, nil
}

func (c *Client) CreateFile(ctx context.Context, projectID int, name, content string) error {
	return c.post(ctx, "files/create", fileRequest{ProjectID: projectID, Name: name, Content: content}, nil)
}

func (c *Client) UpdateFile(ctx context.Context, projectID int, name, content string) error {
	return c.post(ctx, "files/update", fileRequest{ProjectID: projectID, Name: name, Content: content}, nil)
}

func (c *Client) ListEnvironments(ctx context.Context) ([]*models.Environment, error) {
	var resp environmentsResponse
	if err := c.post(ctx, "lean/environments", struct{}{}, &resp); err != nil {
		return nil, err
	}

	environments := make([]*models.Environment, 0, len(resp.Environments))
	for _, e := range resp.Environments {
		environments = append(environments, &models.Environment{ID: e.ID, Name: e.Name, Description: e.Description})
	}
	return environments, nil
}

// post sends body as JSON to endpoint and decodes the answer into out. Every
// answer carries a success flag; out may be nil when only that matters.
func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding %s request: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("request_id", requestID).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("api request")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	var status apiResponse
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &status); err != nil && resp.StatusCode < 400 {
			return fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
	}

	if resp.StatusCode >= 400 || !status.Success {
		return &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode, Messages: status.Errors}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding %s response: %w", endpoint, err)
		}
	}
	return nil
}
