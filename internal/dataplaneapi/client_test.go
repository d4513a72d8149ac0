package dataplaneapi

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type RoundTripFunc func(req *http.Request) *http.Response

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req), nil
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestGetRawConfig(t *testing.T) {
	tests := []struct {
		name           string
		respStatusCode int
		respBody       string
		expected       string
		errMsg         string
	}{
		{"running config", http.StatusOK, `{"_version":7,"data":"global\n  maxconn 10\n"}`, "global\n  maxconn 10\n", ""},
		{"unauthorized", http.StatusUnauthorized, `{}`, "", "unauthorized"},
		{"server error", http.StatusInternalServerError, `{}`, "", "http error"},
		{"undecodable body", http.StatusOK, `global`, "", "failed to decode"},
	}

	for _, tt := range tests {
		tt := tt // linter

		t.Run(tt.name, func(t *testing.T) {
			tc := &http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
				_, _, ok := req.BasicAuth()
				if !ok {
					t.Error("expected Basic Auth to be set, got", ok)
				}
				if !strings.HasSuffix(req.URL.Path, "/v2/services/haproxy/configuration/raw") {
					t.Error("expected request path to end with /v2/services/haproxy/configuration/raw, got", req.URL.Path)
				}
				if req.Method != "GET" {
					t.Error("expected request method to be GET, got", req.Method)
				}

				return jsonResponse(tt.respStatusCode, tt.respBody)
			})}

			dc := NewClient("http://localhost:5555/v2/", WithHTTPClient(tc))

			cfg, err := dc.GetRawConfig(context.TODO())
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.ErrorContains(t, err, tt.errMsg)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg)
		})
	}
}

func TestAPIIsReady(t *testing.T) {
	// test 200 response
	tcReady := &http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		_, _, ok := req.BasicAuth()
		if !ok {
			t.Error("expected Basic Auth to be set, got", ok)
		}
		if req.Method != "GET" {
			t.Error("expected request method to be GET, got", req.Method)
		}

		return &http.Response{
			StatusCode: http.StatusOK,
		}
	})}

	dc := Client{
		client:  tcReady,
		baseURL: "http://localhost:5555/v2",
	}

	ready := dc.APIIsReady(context.TODO())
	if !ready {
		t.Error("expected dataplane api readiness to be true, got:", ready)
	}

	// test non-200 response
	tcNotReady := &http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		return &http.Response{
			StatusCode: http.StatusRequestTimeout,
		}
	})}

	dc = Client{
		client:  tcNotReady,
		baseURL: "http://localhost:5555/v2",
	}

	ready = dc.APIIsReady(context.TODO())
	if ready {
		t.Error("expected dataplane api readiness to be false, got:", ready)
	}
}

func TestWaitForDataPlaneReady(t *testing.T) {
	attempts := 0

	tc := &http.Client{Transport: RoundTripFunc(func(req *http.Request) *http.Response {
		attempts++
		if attempts < 3 {
			return &http.Response{StatusCode: http.StatusServiceUnavailable}
		}

		return &http.Response{StatusCode: http.StatusOK}
	})}

	dc := NewClient("http://localhost:5555/v2", WithHTTPClient(tc))

	require.NoError(t, dc.WaitForDataPlaneReady(context.TODO(), 5, time.Millisecond))
	assert.Equal(t, 3, attempts)

	attempts = -10
	err := dc.WaitForDataPlaneReady(context.TODO(), 2, time.Millisecond)
	assert.ErrorIs(t, err, ErrDataPlaneNotReady)
}
