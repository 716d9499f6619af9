package awair

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
)

// Authenticator supplies the bearer token attached to every request.
type Authenticator interface {
	BearerToken(ctx context.Context) (string, error)
}

// AccessTokenAuth authenticates with a static Awair access token.
type AccessTokenAuth struct {
	AccessToken string
}

// BearerToken returns the access token verbatim.
func (a AccessTokenAuth) BearerToken(context.Context) (string, error) {
	return a.AccessToken, nil
}

// Client queries the Awair API and maps failures onto the error taxonomy.
// It is read-only after construction and safe for concurrent use. The
// *http.Client is owned by the caller; the Client never closes it.
type Client struct {
	authenticator Authenticator
	httpClient    *http.Client
	logger        *slog.Logger
}

// NewClient builds a Client. A nil httpClient falls back to
// http.DefaultClient; a nil logger disables logging.
func NewClient(authenticator Authenticator, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		authenticator: authenticator,
		httpClient:    httpClient,
		logger:        logger,
	}
}

// Query issues a GET against url and returns the raw response body once the
// status code and the application-level errors envelope have been checked.
// The bearer token is fetched from the Authenticator on every call and is
// never cached. Failed calls are not retried.
func (c *Client) Query(ctx context.Context, url string) ([]byte, error) {
	token, err := c.authenticator.BearerToken(ctx)
	if err != nil {
		return nil, newError(ErrAuth, err.Error())
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, newError(ErrQuery, err.Error())
	}

	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("Content-Type", "application/json")

	c.log(slog.LevelDebug, "Querying the Awair API", "url", url)

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, newError(ErrGeneric, err.Error())
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, statusError(response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to read response body: %v", err))
	}

	if err := checkErrorsArray(body); err != nil {
		return nil, err
	}

	return body, nil
}

func (c *Client) log(level slog.Level, msg string, args ...any) {
	if c.logger != nil {
		c.logger.Log(context.Background(), level, msg, args...)
	}
}

func statusError(status int) error {
	switch status {
	case http.StatusBadRequest:
		return newError(ErrQuery, "")
	case http.StatusUnauthorized, http.StatusForbidden:
		return newError(ErrAuth, "")
	case http.StatusNotFound:
		return newError(ErrNotFound, "")
	case http.StatusTooManyRequests:
		return newError(ErrRatelimit, "")
	default:
		return newError(ErrGeneric, fmt.Sprintf("unexpected HTTP %d", status))
	}
}

// checkErrorsArray processes a top-level "errors" array. Holdover from the
// GraphQL API, unclear if we could still get messages like this.
func checkErrorsArray(body []byte) error {
	var envelope struct {
		Errors []struct {
			Message string `json:"message"`
		} `json:"errors"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return newError(ErrGeneric, fmt.Sprintf("failed to unmarshal response: %v", err))
	}

	messages := make([]string, 0, len(envelope.Errors))
	for _, entry := range envelope.Errors {
		if strings.Contains(entry.Message, "Too many requests") {
			return newError(ErrRatelimit, "")
		}

		message := entry.Message
		if message == "" {
			message = "Unknown error"
		}
		messages = append(messages, message)
	}

	if len(messages) > 0 {
		return newError(ErrGeneric, strings.Join(messages, ", "))
	}

	return nil
}
