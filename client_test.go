package awair

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// roundTripFunc lets tests stub the transport for requests that target the
// real API hostnames.
type roundTripFunc func(r *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func newStubClient(t *testing.T, handler func(r *http.Request) (*http.Response, error)) *Client {
	t.Helper()
	httpClient := &http.Client{Transport: roundTripFunc(handler)}
	return NewClient(AccessTokenAuth{AccessToken: "abcdefg"}, httpClient, nil)
}

type failingAuth struct{}

func (failingAuth) BearerToken(context.Context) (string, error) {
	return "", errors.New("token endpoint unreachable")
}

func Test_Query(t *testing.T) {
	t.Run("sets the authorization and content-type headers", func(t *testing.T) {
		var got http.Header
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.Header.Clone()
			w.Write([]byte(`{}`))
		}))
		defer server.Close()

		client := NewClient(AccessTokenAuth{AccessToken: "abcdefg"}, server.Client(), nil)
		if _, err := client.Query(context.Background(), server.URL); err != nil {
			t.Fatalf("Query() error = %v", err)
		}

		if auth := got.Get("Authorization"); auth != "Bearer abcdefg" {
			t.Errorf("Authorization = %q; want %q", auth, "Bearer abcdefg")
		}
		if ct := got.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q; want %q", ct, "application/json")
		}
	})

	t.Run("returns the raw body on success", func(t *testing.T) {
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"id":"32406"}`), nil
		})

		body, err := client.Query(context.Background(), "https://example.test/users/self")
		if err != nil {
			t.Fatalf("Query() error = %v", err)
		}
		if string(body) != `{"id":"32406"}` {
			t.Errorf("body = %s; want the response verbatim", body)
		}
	})

	t.Run("maps HTTP statuses onto error kinds", func(t *testing.T) {
		tests := []struct {
			status int
			want   error
		}{
			{http.StatusBadRequest, ErrQuery},
			{http.StatusUnauthorized, ErrAuth},
			{http.StatusForbidden, ErrAuth},
			{http.StatusNotFound, ErrNotFound},
			{http.StatusTooManyRequests, ErrRatelimit},
			{http.StatusInternalServerError, ErrGeneric},
			{http.StatusTeapot, ErrGeneric},
		}

		for _, tt := range tests {
			client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
				return jsonResponse(tt.status, `{}`), nil
			})

			_, err := client.Query(context.Background(), "https://example.test")
			if !errors.Is(err, tt.want) {
				t.Errorf("status %d: error = %v; want kind %v", tt.status, err, tt.want)
			}

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Errorf("status %d: error %v is not an *Error", tt.status, err)
			}
		}
	})

	t.Run("detects a ratelimit message in a 200 response", func(t *testing.T) {
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"errors":[{"message":"Too many requests, slow down"}]}`), nil
		})

		_, err := client.Query(context.Background(), "https://example.test")
		if !errors.Is(err, ErrRatelimit) {
			t.Errorf("error = %v; want kind %v", err, ErrRatelimit)
		}
	})

	t.Run("joins application error messages", func(t *testing.T) {
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"errors":[{"message":"first"},{"message":"second"}]}`), nil
		})

		_, err := client.Query(context.Background(), "https://example.test")
		if !errors.Is(err, ErrGeneric) {
			t.Fatalf("error = %v; want kind %v", err, ErrGeneric)
		}
		if !strings.Contains(err.Error(), "first, second") {
			t.Errorf("error = %q; want it to contain %q", err.Error(), "first, second")
		}
	})

	t.Run("ignores an empty errors array", func(t *testing.T) {
		client := newStubClient(t, func(r *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, `{"errors":[],"data":[]}`), nil
		})

		if _, err := client.Query(context.Background(), "https://example.test"); err != nil {
			t.Errorf("Query() error = %v; want nil", err)
		}
	})

	t.Run("surfaces authenticator failures as auth errors", func(t *testing.T) {
		client := NewClient(failingAuth{}, &http.Client{Transport: roundTripFunc(func(r *http.Request) (*http.Response, error) {
			t.Error("no request should be sent when the authenticator fails")
			return jsonResponse(http.StatusOK, `{}`), nil
		})}, nil)

		_, err := client.Query(context.Background(), "https://example.test")
		if !errors.Is(err, ErrAuth) {
			t.Errorf("error = %v; want kind %v", err, ErrAuth)
		}
	})
}
