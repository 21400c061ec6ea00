package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"dgqueue/internal/models"
)

// HTTPClient talks to a DataGateway/TopCAT instance over its REST API.
type HTTPClient struct {
	baseURL string
	client  *http.Client
}

func New(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (c *HTTPClient) Login(ctx context.Context, username, password, authenticator string) (Session, error) {
	form := url.Values{
		"plugin":   {authenticator},
		"username": {username},
		"password": {password},
	}

	body, status, err := c.postForm(ctx, "/topcat/user/session", form)
	if err != nil {
		return "", &TransportError{Op: "login", Err: err}
	}
	if status != http.StatusOK {
		return "", &AuthError{Message: serverMessage(body, status)}
	}

	var resp struct {
		SessionID string `json:"sessionId"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &TransportError{Op: "login", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if resp.SessionID == "" {
		return "", &TransportError{Op: "login", Err: fmt.Errorf("response contained no session id")}
	}

	return Session(resp.SessionID), nil
}

func (c *HTTPClient) SubmitDownload(ctx context.Context, s Session, req models.DownloadRequest) (models.SubmitResult, error) {
	form := url.Values{
		"sessionId": {string(s)},
		"transport": {string(req.Transport)},
		"fileName":  {req.FileName},
		"email":     {req.Email},
		"files":     req.Files,
	}

	body, status, err := c.postForm(ctx, "/topcat/user/queue/files", form)
	if err != nil {
		return models.SubmitResult{}, &TransportError{Op: "submit", Err: err}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return models.SubmitResult{}, &AuthError{Message: serverMessage(body, status)}
	}
	if status != http.StatusOK {
		return models.SubmitResult{}, &SubmissionError{Name: req.FileName, Message: serverMessage(body, status)}
	}

	var result models.SubmitResult
	if err := json.Unmarshal(body, &result); err != nil {
		return models.SubmitResult{}, &TransportError{Op: "submit", Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return result, nil
}

func (c *HTTPClient) GetStatus(ctx context.Context, s Session, downloadID int64) (models.Status, error) {
	query := url.Values{
		"sessionId":   {string(s)},
		"downloadIds": {strconv.FormatInt(downloadID, 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/topcat/user/downloads/status?"+query.Encode(), nil)
	if err != nil {
		return "", &TransportError{Op: "status", Err: err}
	}

	body, status, err := c.do(req)
	if err != nil {
		return "", &TransportError{Op: "status", Err: err}
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return "", &AuthError{Message: serverMessage(body, status)}
	}
	if status != http.StatusOK {
		return "", &TransportError{Op: "status", Err: fmt.Errorf("%s", serverMessage(body, status))}
	}

	var statuses []models.Status
	if err := json.Unmarshal(body, &statuses); err != nil {
		return "", &TransportError{Op: "status", Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	if len(statuses) == 0 {
		return "", &TransportError{Op: "status", Err: fmt.Errorf("no status reported for download %d", downloadID)}
	}

	return statuses[0], nil
}

func (c *HTTPClient) RefreshSession(ctx context.Context, s Session) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/datagateway-api/sessions", nil)
	if err != nil {
		return &TransportError{Op: "refresh", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+string(s))

	body, status, err := c.do(req)
	if err != nil {
		return &TransportError{Op: "refresh", Err: err}
	}
	if status != http.StatusOK {
		return &AuthError{Message: serverMessage(body, status)}
	}

	return nil
}

func (c *HTTPClient) postForm(ctx context.Context, path string, form url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

func (c *HTTPClient) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, resp.StatusCode, nil
}

func serverMessage(body []byte, status int) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Sprintf("status code %d", status)
	}
	return msg
}
