// Package client talks to the HireGround REST API on behalf of the terminal client.
package client

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
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/justsurfingit/hireground/internal/auth"
	"github.com/justsurfingit/hireground/internal/dtos"
	"github.com/justsurfingit/hireground/internal/interview"
	"github.com/justsurfingit/hireground/internal/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: %s", http.StatusText(e.Status))
	}
	return fmt.Sprintf("api: %s (%d)", e.Message, e.Status)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	BaseURL string
	Session *auth.Session
	HTTP    *http.Client
}

// New returns a client for the API at baseURL. The session supplies the bearer token.
func New(baseURL string, session *auth.Session) *Client {
	if session == nil {
		session = auth.NewSession("")
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Session: session,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

var _ interview.RemoteAPI = (*Client)(nil)

// FetchInterview loads an interview definition.
func (c *Client) FetchInterview(ctx context.Context, id string) (interview.Definition, error) {
	var def interview.Definition
	err := c.do(ctx, http.MethodGet, "/api/v1/interviews/"+url.PathEscape(id), nil, &def)
	switch StatusOf(err) {
	case 0:
	case http.StatusNotFound:
		return def, fmt.Errorf("%w: %s", interview.ErrNotFound, id)
	case http.StatusGone:
		return def, fmt.Errorf("%w: %s", interview.ErrExpired, id)
	}
	if err != nil {
		return def, err
	}
	return def, def.Validate()
}

// Submit sends the ordered, non-blank responses. Any failure wraps ErrSubmissionFailed.
func (c *Client) Submit(ctx context.Context, id string, responses []string) (interview.Ack, error) {
	var ack interview.Ack
	body := dtos.SubmitRequest{Responses: responses}
	if err := c.do(ctx, http.MethodPost, "/api/v1/interviews/"+url.PathEscape(id)+"/submit", body, &ack); err != nil {
		return interview.Ack{}, fmt.Errorf("%w: %w", interview.ErrSubmissionFailed, err)
	}
	return ack, nil
}

// Register creates an account and stores the issued token in the session.
func (c *Client) Register(ctx context.Context, req dtos.RegisterRequest) (*dtos.AuthResponse, error) {
	var resp dtos.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp, c.Session.Set(resp.Token, resp.ExpiresAt)
}

// Login authenticates and stores the issued token in the session.
func (c *Client) Login(ctx context.Context, email, password string) (*dtos.AuthResponse, error) {
	var resp dtos.AuthResponse
	req := dtos.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &resp); err != nil {
		return nil, err
	}
	return &resp, c.Session.Set(resp.Token, resp.ExpiresAt)
}

// Logout revokes the token server-side and always clears the local session.
func (c *Client) Logout(ctx context.Context) error {
	var err error
	if c.Session.Token() != "" {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
	}
	if clearErr := c.Session.Clear(); clearErr != nil {
		return clearErr
	}
	if StatusOf(err) == http.StatusUnauthorized {
		return nil
	}
	return err
}

func (c *Client) Profile(ctx context.Context) (*models.Profile, error) {
	var resp dtos.ProfileResponse
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

func (c *Client) UpdateProfile(ctx context.Context, in dtos.ProfileInput) (*models.Profile, error) {
	var resp dtos.ProfileResponse
	if err := c.do(ctx, http.MethodPut, "/api/profile", in, &resp); err != nil {
		return nil, err
	}
	return &resp.Profile, nil
}

// UploadResume posts the file as multipart field "resume".
func (c *Client) UploadResume(ctx context.Context, filename string, r io.Reader) (*models.ResumeFile, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("resume", filepath.Base(filename))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/api/profile/resume", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	var resp dtos.ResumeResponse
	if err := c.send(ctx, req, &resp); err != nil {
		return nil, err
	}
	return resp.Resume, nil
}

func (c *Client) ListJobs(ctx context.Context, f dtos.JobFilter) ([]models.Job, error) {
	q := url.Values{}
	if f.Query != "" {
		q.Set("q", f.Query)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.Remote != nil {
		q.Set("remote", strconv.FormatBool(*f.Remote))
	}
	path := "/api/v1/jobs"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var resp dtos.JobListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Jobs, nil
}

func (c *Client) GetJob(ctx context.Context, id uint) (*models.Job, error) {
	var job models.Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/v1/jobs/%d", id), nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

func (c *Client) Apply(ctx context.Context, jobID uint, coverLetter string) (*models.Application, error) {
	var resp dtos.ApplicationResponse
	body := dtos.ApplyRequest{CoverLetter: coverLetter}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/jobs/%d/apply", jobID), body, &resp); err != nil {
		return nil, err
	}
	return &resp.Application, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(ctx, req, out)
}

func (c *Client) send(ctx context.Context, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")
	resp, err := c.Session.HTTPClient(ctx, c.HTTP).Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var body struct {
			Error string `json:"error"`
		}
		_ = json.Unmarshal(data, &body)
		return &APIError{Status: resp.StatusCode, Message: body.Error}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
