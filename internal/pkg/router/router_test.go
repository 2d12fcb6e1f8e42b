package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lhaden/authgate/internal/pkg/config"
	"github.com/lhaden/authgate/internal/pkg/goerror"
	"github.com/lhaden/authgate/internal/pkg/instrument"
	"github.com/lhaden/authgate/internal/pkg/validator"
)

type fixedUUID string

func (f fixedUUID) Generate() string { return string(f) }

type created struct {
	ID string `json:"id"`
}

func (created) StatusCode() int      { return http.StatusCreated }
func (created) Message() string      { return "created" }
func (created) Meta() map[string]any { return map[string]any{"version": "v1"} }

type testEnvelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Meta    map[string]any    `json:"meta"`
	Error   map[string]string `json:"error"`
}

func newTestRouter(t *testing.T, yaml string) *Router {
	t.Helper()

	var cfg config.Config
	if yaml != "" {
		v, err := config.NewViperFromBytes("yaml", []byte(yaml))
		if err != nil {
			t.Fatalf("NewViperFromBytes() error = %v", err)
		}
		cfg = v
	}

	r := NewRouter(Config{Config: cfg, UUID: fixedUUID("generated-cid"), Instrument: instrument.NewNoop()})
	r.GET("/ok", func(*Request) (any, error) { return map[string]string{"hello": "world"}, nil })
	r.POST("/created", func(*Request) (any, error) { return created{ID: "1"}, nil })
	r.POST("/empty", func(*Request) (any, error) { return nil, nil })
	r.POST("/echo", func(req *Request) (any, error) {
		var body struct {
			Name string `json:"name"`
		}
		if err := req.DecodeBody(&body); err != nil {
			return nil, err
		}
		return body, nil
	})
	r.POST("/validation", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(validator.V10ValidationError{"email": "email is a required field"})
	})
	r.POST("/fields", func(*Request) (any, error) {
		return nil, goerror.NewInvalidInput(nil, "otp", "otp is required")
	})
	r.POST("/upstream", func(*Request) (any, error) {
		return nil, goerror.NewUpstream(errors.New("relay down"), "Email send failed")
	})
	r.POST("/unknown", func(*Request) (any, error) { return nil, errors.New("boom") })
	r.POST("/panic", func(*Request) (any, error) { panic("kaboom") })

	return r
}

func do(t *testing.T, h http.Handler, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, testEnvelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env testEnvelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("response is not json: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func TestRouter_Responses(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		body       string
		wantStatus int
		wantMsg    string
		wantData   string
		wantError  map[string]string
	}{
		{name: "ok", method: http.MethodGet, path: "/ok", wantStatus: 200, wantMsg: "request has been successfully", wantData: `{"hello":"world"}`},
		{name: "custom status", method: http.MethodPost, path: "/created", wantStatus: 201, wantMsg: "created", wantData: `{"id":"1"}`},
		{name: "no content", method: http.MethodPost, path: "/empty", wantStatus: 204},
		{name: "decoded body", method: http.MethodPost, path: "/echo", body: `{"name":"alice"}`, wantStatus: 200, wantData: `{"name":"alice"}`, wantMsg: "request has been successfully"},
		{name: "broken body", method: http.MethodPost, path: "/echo", body: `{"name":`, wantStatus: 400, wantMsg: "Invalid request body"},
		{name: "trailing data", method: http.MethodPost, path: "/echo", body: `{"name":"a"}{"name":"b"}`, wantStatus: 400, wantMsg: "Invalid request body"},
		{name: "validation", method: http.MethodPost, path: "/validation", wantStatus: 422, wantMsg: "Validation error", wantError: map[string]string{"email": "email is a required field"}},
		{name: "fields", method: http.MethodPost, path: "/fields", wantStatus: 422, wantMsg: "Validation error", wantError: map[string]string{"otp": "otp is required"}},
		{name: "upstream", method: http.MethodPost, path: "/upstream", wantStatus: 502, wantMsg: "Email send failed"},
		{name: "unknown error", method: http.MethodPost, path: "/unknown", wantStatus: 500, wantMsg: "Internal server error"},
		{name: "panic", method: http.MethodPost, path: "/panic", wantStatus: 500, wantMsg: "Internal server error"},
		{name: "not found", method: http.MethodGet, path: "/missing", wantStatus: 404, wantMsg: "endpoint not found"},
		{name: "method not allowed", method: http.MethodDelete, path: "/ok", wantStatus: 405, wantMsg: "method not allowed"},
		{name: "health", method: http.MethodGet, path: "/health", wantStatus: 200},
	}

	r := newTestRouter(t, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, env := do(t, r, tt.method, tt.path, tt.body, nil)

			// Assert
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if env.Message != tt.wantMsg {
				t.Errorf("message = %q, want %q", env.Message, tt.wantMsg)
			}
			if tt.wantData != "" && string(env.Data) != tt.wantData {
				t.Errorf("data = %s, want %s", env.Data, tt.wantData)
			}
			for k, v := range tt.wantError {
				if env.Error[k] != v {
					t.Errorf("error[%s] = %q, want %q", k, env.Error[k], v)
				}
			}
		})
	}
}

func TestRouter_Meta(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "")

	// Act
	_, env := do(t, r, http.MethodPost, "/created", "", nil)

	// Assert
	if env.Meta["version"] != "v1" {
		t.Errorf("meta = %v", env.Meta)
	}
}

func TestRouter_CorrelationID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{name: "generated", want: "generated-cid"},
		{name: "inbound header", headers: map[string]string{HeaderCorrelationID: "abc-123"}, want: "abc-123"},
		{name: "request id fallback", headers: map[string]string{HeaderRequestID: "req-9"}, want: "req-9"},
		{name: "oversized", headers: map[string]string{HeaderCorrelationID: strings.Repeat("x", 200)}, want: strings.Repeat("x", 128)},
	}

	r := newTestRouter(t, "")

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Act
			rec, _ := do(t, r, http.MethodGet, "/ok", "", tt.headers)

			// Assert
			if got := rec.Header().Get(HeaderCorrelationID); got != tt.want {
				t.Errorf("%s = %q, want %q", HeaderCorrelationID, got, tt.want)
			}
		})
	}
}

func TestRouter_Maintenance(t *testing.T) {
	// Arrange
	r := newTestRouter(t, "app:\n  maintenance:\n    endpoints:\n      - /created\n")

	// Act
	blocked, env := do(t, r, http.MethodPost, "/created", "", nil)
	open, _ := do(t, r, http.MethodGet, "/ok", "", nil)

	// Assert
	if blocked.Code != http.StatusServiceUnavailable || env.Message != "service is under maintenance" {
		t.Errorf("blocked = %d %q", blocked.Code, env.Message)
	}
	if open.Code != http.StatusOK {
		t.Errorf("open route status = %d, want 200", open.Code)
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{name: "forwarded for", headers: map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, remote: "10.0.0.2:1234", want: "203.0.113.7"},
		{name: "real ip wins over forwarded", headers: map[string]string{"X-Real-IP": "198.51.100.1", "X-Forwarded-For": "203.0.113.7"}, remote: "10.0.0.2:1234", want: "198.51.100.1"},
		{name: "remote addr", remote: "192.0.2.5:5555", want: "192.0.2.5"},
		{name: "garbage header", headers: map[string]string{"X-Real-IP": "not-an-ip"}, remote: "192.0.2.5:5555", want: "192.0.2.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			// Act
			got := realIP(req)

			// Assert
			if got != tt.want {
				t.Errorf("realIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
