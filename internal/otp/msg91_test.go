package otp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rohitgurjar522-source/brooconnect/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, "test-key", "tmpl-1", "BROOCT", logging.Discard())
}

func TestRequestCodeSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/otp" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("authkey") != "test-key" {
			t.Errorf("missing authkey header")
		}
		w.Write([]byte(`{"type":"success"}`))
	})

	if err := client.RequestCode(context.Background(), "919876543210"); err != nil {
		t.Fatalf("request code: %v", err)
	}
}

func TestRequestCodeRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type":"error","message":"invalid template"}`))
	})

	err := client.RequestCode(context.Background(), "919876543210")
	if !errors.Is(err, ErrSendRejected) {
		t.Fatalf("expected ErrSendRejected, got %v", err)
	}
}

func TestVerifyCodeSuccess(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/otp/verify" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("mobile") != "919876543210" || q.Get("otp") != "1234" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Write([]byte(`{"type":"success"}`))
	})

	if err := client.VerifyCode(context.Background(), "919876543210", "1234"); err != nil {
		t.Fatalf("verify code: %v", err)
	}
}

func TestVerifyCodeRejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"type":"error","message":"OTP expired"}`))
	})

	err := client.VerifyCode(context.Background(), "919876543210", "1234")
	if !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}
}

func TestGatewayUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close() // connection refused from here on
	client := NewClient(srv.URL, "k", "t", "s", logging.Discard())

	if err := client.RequestCode(context.Background(), "919876543210"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if err := client.VerifyCode(context.Background(), "919876543210", "1234"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLoggerGatewayAcceptsDevCodeOnly(t *testing.T) {
	gw := NewLoggerGateway(logging.Discard())
	ctx := context.Background()

	if err := gw.RequestCode(ctx, "919876543210"); err != nil {
		t.Fatalf("request: %v", err)
	}
	if err := gw.VerifyCode(ctx, "919876543210", DevCode); err != nil {
		t.Fatalf("verify dev code: %v", err)
	}
	if err := gw.VerifyCode(ctx, "919876543210", "999999"); !errors.Is(err, ErrCodeInvalid) {
		t.Fatalf("expected ErrCodeInvalid, got %v", err)
	}
}
