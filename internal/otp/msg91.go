package otp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	authKeyHeader  = "authkey"
	requestTimeout = 10 * time.Second
	statusSuccess  = "success"
)

// Client talks to an MSG91-compatible OTP HTTP API.
type Client struct {
	baseURL    string
	authKey    string
	templateID string
	senderID   string
	http       *http.Client
	logger     *slog.Logger
}

// NewClient builds an OTP gateway client. The base URL points at the
// provider's v5 API root.
func NewClient(baseURL, authKey, templateID, senderID string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		authKey:    authKey,
		templateID: templateID,
		senderID:   senderID,
		http:       &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// providerResponse is the envelope MSG91 returns for both send and verify.
type providerResponse struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// RequestCode asks the provider to dispatch an SMS code to the mobile
// number. There is no idempotency guard here: calling twice sends two
// codes. The resend cooldown lives in the Ledger.
func (c *Client) RequestCode(ctx context.Context, mobile string) error {
	payload, err := json.Marshal(map[string]string{
		"template_id": c.templateID,
		"mobile":      mobile,
		"sender":      c.senderID,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/otp", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(authKeyHeader, c.authKey)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if body.Type != statusSuccess {
		c.logger.Warn("otp send rejected", "mobile_suffix", suffix(mobile), "provider_message", body.Message)
		if body.Message != "" {
			return fmt.Errorf("%w: %s", ErrSendRejected, body.Message)
		}
		return ErrSendRejected
	}
	return nil
}

// VerifyCode asks the provider to check a submitted code. Every call is
// a fresh round-trip; the provider decides expiry and reuse.
func (c *Client) VerifyCode(ctx context.Context, mobile, code string) error {
	endpoint := fmt.Sprintf("%s/otp/verify?mobile=%s&otp=%s",
		c.baseURL, url.QueryEscape(mobile), url.QueryEscape(code))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set(authKeyHeader, c.authKey)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	if body.Type != statusSuccess {
		return ErrCodeInvalid
	}
	return nil
}

func (c *Client) do(req *http.Request) (providerResponse, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("otp gateway request failed", "error", err)
		return providerResponse{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	var body providerResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logger.Error("otp gateway returned malformed response", "status", resp.StatusCode, "error", err)
		return providerResponse{}, fmt.Errorf("%w: malformed provider response", ErrUnavailable)
	}
	return body, nil
}

// suffix keeps logs useful without writing full subscriber numbers.
func suffix(mobile string) string {
	if len(mobile) <= 4 {
		return mobile
	}
	return mobile[len(mobile)-4:]
}
