package xfc

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const apiPath = "/api/v1/"

// Client is a client for the xfc_control HTTP API
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     *logrus.Logger
}

var _ ClientAPI = (*Client)(nil)

// NewClient creates a new xfc_control client rooted at serverURL.
// TLS certificate verification is on unless verifyTLS is false.
func NewClient(serverURL string, verifyTLS bool, timeout time.Duration, logger *logrus.Logger) *Client {
	transport := http.DefaultTransport
	if !verifyTLS {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	if logger == nil {
		logger = logrus.New()
	}

	return &Client{
		apiURL: strings.TrimRight(serverURL, "/") + apiPath,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		logger: logger,
	}
}

// doRequest executes an HTTP request, JSON-encoding body when present.
// Transport failures come back as *NetworkError.
func (c *Client) doRequest(method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}

	c.logger.Debugf("%s %s -> %s", method, url, resp.Status)
	return resp, nil
}

// errorFromResponse turns a non-2xx response into a *ServerError,
// picking up the server's error string when the body carries one
func errorFromResponse(resp *http.Response) error {
	var payload errorPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
		return &ServerError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &ServerError{StatusCode: resp.StatusCode}
}

// checkUserScoped classifies the status of a user-scoped response:
// 404 means the user has not been initialised yet.
func checkUserScoped(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotInitialized
	default:
		return errorFromResponse(resp)
	}
}

func (c *Client) userURL(name string) string {
	return c.apiURL + "user?name=" + url.QueryEscape(name)
}

// GetUser retrieves the user record for name
func (c *Client) GetUser(name string) (*User, error) {
	resp, err := c.doRequest(http.MethodGet, c.userURL(name), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &ProtocolError{Endpoint: "user", Err: err}
	}

	return &user, nil
}

// CreateUser initialises the cache space for name. The email field is
// only sent when non-empty.
func (c *Client) CreateUser(name, email string) (*User, error) {
	body := createUserRequest{Name: name, Email: email}

	resp, err := c.doRequest(http.MethodPost, c.apiURL+"user", body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errorFromResponse(resp)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &ProtocolError{Endpoint: "user", Err: err}
	}

	return &user, nil
}

// UpdateEmail changes the email address registered for name
func (c *Client) UpdateEmail(name, email string) (*User, error) {
	body := updateEmailRequest{Name: name, Email: email}

	resp, err := c.doRequest(http.MethodPut, c.userURL(name), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &ProtocolError{Endpoint: "user", Err: err}
	}

	return &user, nil
}

// SetNotify switches deletion-notification emails on or off for name
func (c *Client) SetNotify(name string, notify bool) (*User, error) {
	body := updateNotifyRequest{Name: name, Notify: notify}

	resp, err := c.doRequest(http.MethodPut, c.userURL(name), body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, &ProtocolError{Endpoint: "user", Err: err}
	}

	return &user, nil
}

// ListFiles lists the files in the user's cache area. A non-empty match
// is passed through as a server-side substring filter.
func (c *Client) ListFiles(name, match string) ([]File, error) {
	u := c.apiURL + "file?name=" + url.QueryEscape(name)
	if match != "" {
		u += "&match=" + url.QueryEscape(match)
	}

	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var files []File
	if err := json.NewDecoder(resp.Body).Decode(&files); err != nil {
		return nil, &ProtocolError{Endpoint: "file", Err: err}
	}

	return files, nil
}

// ScheduledDeletions returns the deletion batches the server has
// scheduled for the user. The API supports several batches per user
// even though only the first is ever populated at present.
func (c *Client) ScheduledDeletions(name string) ([]ScheduledDeletion, error) {
	u := c.apiURL + "scheduled_deletions?name=" + url.QueryEscape(name)

	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var deletions []ScheduledDeletion
	if err := json.NewDecoder(resp.Body).Decode(&deletions); err != nil {
		return nil, &ProtocolError{Endpoint: "scheduled_deletions", Err: err}
	}

	return deletions, nil
}

// PredictDeletions returns the server's forecast of when the user's
// quota will be exceeded and which files would go first
func (c *Client) PredictDeletions(name string) (*Prediction, error) {
	u := c.apiURL + "predict_deletions?name=" + url.QueryEscape(name)

	resp, err := c.doRequest(http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := checkUserScoped(resp); err != nil {
		return nil, err
	}

	var prediction Prediction
	if err := json.NewDecoder(resp.Body).Decode(&prediction); err != nil {
		return nil, &ProtocolError{Endpoint: "predict_deletions", Err: err}
	}

	return &prediction, nil
}

// APIURL returns the resolved API root, mainly for diagnostics
func (c *Client) APIURL() string {
	return c.apiURL
}
