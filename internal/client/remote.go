package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/redmonkez12/job-tracker/internal/application"
	"github.com/redmonkez12/job-tracker/internal/httputil"
)

// Remote talks to the REST API. When the session holds a token it is
// attached as a bearer header to every request; there is no silent refresh.
// A 401 on a protected call clears the session so the caller can fall back
// to guest mode.
type Remote struct {
	baseURL string
	http    *http.Client
	session *Session
}

func NewRemote(baseURL string, session *Session) *Remote {
	return &Remote{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		session: session,
	}
}

// Profile is the server's /auth/me response
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"user"`
}

// Register creates an account and stores the returned token as the session.
func (c *Remote) Register(ctx context.Context, email, password string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", nil, credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return err
	}
	return c.session.Save(&State{Token: resp.Token, Email: resp.User.Email})
}

// Login authenticates and stores the returned token as the session.
func (c *Remote) Login(ctx context.Context, email, password string) error {
	var resp authResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", nil, credentialsRequest{Email: email, Password: password}, &resp)
	if err != nil {
		return err
	}
	return c.session.Save(&State{Token: resp.Token, Email: resp.User.Email})
}

// Logout discards the stored token. Client-side only: the token itself
// stays valid until expiry.
func (c *Remote) Logout() error {
	return c.session.Clear()
}

// Me fetches the authenticated user's profile
func (c *Remote) Me(ctx context.Context) (*Profile, error) {
	var profile Profile
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// List fetches the caller's applications
func (c *Remote) List(ctx context.Context, filter application.ListFilter) ([]application.Application, error) {
	query := url.Values{}
	if filter.Status != "" {
		query.Set("status", string(filter.Status))
	}
	if filter.Sort != "" {
		query.Set("sort", filter.Sort)
	}

	var apps []application.Application
	if err := c.do(ctx, http.MethodGet, "/applications", query, nil, &apps); err != nil {
		return nil, err
	}
	return apps, nil
}

// Create adds a new application
func (c *Remote) Create(ctx context.Context, in application.CreateInput) (*application.Application, error) {
	body := map[string]string{
		"company": in.Company,
		"role":    in.Role,
		"status":  string(in.Status),
		"link":    in.Link,
		"notes":   in.Notes,
	}

	var app application.Application
	if err := c.do(ctx, http.MethodPost, "/applications", nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Update applies a partial update; nil fields are omitted from the request
// body entirely so the server leaves them unchanged.
func (c *Remote) Update(ctx context.Context, id string, fields application.UpdateFields) (*application.Application, error) {
	body := map[string]string{}
	if fields.Company != nil {
		body["company"] = *fields.Company
	}
	if fields.Role != nil {
		body["role"] = *fields.Role
	}
	if fields.Status != nil {
		body["status"] = string(*fields.Status)
	}
	if fields.Link != nil {
		body["link"] = *fields.Link
	}
	if fields.Notes != nil {
		body["notes"] = *fields.Notes
	}

	var app application.Application
	if err := c.do(ctx, http.MethodPut, "/applications/"+url.PathEscape(id), nil, body, &app); err != nil {
		return nil, err
	}
	return &app, nil
}

// Delete removes an application permanently
func (c *Remote) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/applications/"+url.PathEscape(id), nil, nil, nil)
}

// do performs one API call: marshals the body, attaches the bearer token if
// a session exists, and decodes either the result or the error envelope.
func (c *Remote) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	state, err := c.session.Load()
	if err != nil {
		return err
	}
	if state != nil {
		req.Header.Set("Authorization", "Bearer "+state.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp, state != nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

// mapError converts an error envelope into a sentinel error
func (c *Remote) mapError(resp *http.Response, hadToken bool) error {
	var envelope httputil.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&envelope)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		if envelope.Code == httputil.CodeInvalidCredentials {
			return ErrInvalidCredentials
		}
		// The stored token was rejected; discard it and fall back to guest
		if hadToken {
			if err := c.session.Clear(); err != nil {
				return err
			}
			return ErrSessionExpired
		}
		return ErrSessionExpired
	case http.StatusForbidden:
		return application.ErrForbidden
	case http.StatusNotFound:
		return application.ErrNotFound
	case http.StatusBadRequest:
		switch envelope.Code {
		case httputil.CodeEmailAlreadyExists:
			return ErrEmailAlreadyRegistered
		case httputil.CodeCompanyRequired:
			return application.ErrCompanyRequired
		case httputil.CodeRoleRequired:
			return application.ErrRoleRequired
		case httputil.CodeInvalidStatus:
			return application.ErrInvalidStatus
		}
		return fmt.Errorf("%w: %s", ErrValidation, envelope.Error)
	}

	return fmt.Errorf("server error (%d): %s", resp.StatusCode, envelope.Error)
}
