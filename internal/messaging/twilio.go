package messaging

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"smarttext/internal/config"
)

const twilioAPIBase = "https://api.twilio.com"

// TwilioProvider sends SMS through the Twilio Messages REST API.
type TwilioProvider struct {
	http       *resty.Client
	accountSID string
}

type twilioMessageResponse struct {
	Sid    string `json:"sid"`
	Status string `json:"status"`
}

type twilioErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewTwilioProvider builds a Twilio client. baseURL overrides the API host
// for tests; pass "" in production wiring.
func NewTwilioProvider(cfg config.TwilioConfig, baseURL string) *TwilioProvider {
	if baseURL == "" {
		baseURL = twilioAPIBase
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(10*time.Second).
		SetRetryCount(2).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(2*time.Second).
		SetBasicAuth(cfg.AccountSID, cfg.AuthToken)

	return &TwilioProvider{http: client, accountSID: cfg.AccountSID}
}

func (p *TwilioProvider) Name() string { return "twilio" }

func (p *TwilioProvider) Send(ctx context.Context, from, to, body string) (SendResult, error) {
	if from == "" || to == "" {
		return SendResult{}, fmt.Errorf("messaging: from and to are required")
	}
	if strings.TrimSpace(body) == "" {
		return SendResult{}, fmt.Errorf("messaging: body is required")
	}

	var (
		out   twilioMessageResponse
		twErr twilioErrorResponse
	)
	resp, err := p.http.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"From": from,
			"To":   to,
			"Body": body,
		}).
		SetResult(&out).
		SetError(&twErr).
		Post(fmt.Sprintf("/2010-04-01/Accounts/%s/Messages.json", p.accountSID))
	if err != nil {
		return SendResult{}, fmt.Errorf("messaging: twilio request failed: %w", err)
	}
	if resp.IsError() {
		return SendResult{}, fmt.Errorf("messaging: twilio error %d: %s", twErr.Code, twErr.Message)
	}
	if out.Sid == "" {
		return SendResult{}, fmt.Errorf("messaging: twilio response missing sid")
	}
	return SendResult{ID: out.Sid, Status: out.Status}, nil
}
