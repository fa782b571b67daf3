package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/julianstephens/weekmenu/internal/constants"
)

// Get sends a GET and decodes the JSON answer into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.call(ctx, http.MethodGet, path, query, nil, out)
}

// Post sends in as JSON and decodes the answer into out.
func (c *Client) Post(ctx context.Context, path string, in, out interface{}) error {
	return c.call(ctx, http.MethodPost, path, nil, in, out)
}

// Put sends in as JSON and decodes the answer into out.
func (c *Client) Put(ctx context.Context, path string, in, out interface{}) error {
	return c.call(ctx, http.MethodPut, path, nil, in, out)
}

// Delete sends a DELETE with the given query and decodes the answer into out.
func (c *Client) Delete(ctx context.Context, path string, query url.Values, out interface{}) error {
	return c.call(ctx, http.MethodDelete, path, query, nil, out)
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, in, out interface{}) error {
	req := &Request{Method: method, Path: path, Query: query}
	if in != nil {
		body, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.Body = body
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

// Login exchanges a username and password for an access token and starts the
// session. A rejected login is never refreshed.
func (c *Client) Login(ctx context.Context, username, password string) error {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal login request: %w", err)
	}

	// Sent outside the recovery stage so a rejected login neither refreshes
	// nor ends the current session.
	resp, apiErr := c.send(ctx, &Request{Method: http.MethodPost, Path: constants.PathLogin, Body: body})
	if apiErr != nil {
		c.logFailure(apiErr)
		return apiErr
	}

	var payload struct {
		AccessToken string `json:"accessToken"`
	}
	if err := resp.Decode(&payload); err != nil {
		return err
	}
	if payload.AccessToken == "" {
		return errors.New("login response carried no access token")
	}
	return c.session.Login(payload.AccessToken)
}
