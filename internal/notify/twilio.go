// SPDX-License-Identifier: MIT

package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/endulce/veci/internal/domain"
	"github.com/endulce/veci/internal/log"
	"github.com/endulce/veci/internal/metrics"
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// TwilioNotifier sends WhatsApp messages to the operator through the Twilio
// REST API (form-encoded POST with basic auth).
type TwilioNotifier struct {
	accountSID string
	authToken  string
	from       string
	admin      string
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// TwilioConfig holds Twilio credentials and the operator number.
type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	FromNumber string
	AdminPhone string
	BaseURL    string // override for tests; empty means the real API
}

// NewTwilio builds a Twilio-backed Notifier. When credentials or the admin
// number are missing it returns Disabled so the rest of the system does not
// care whether notifications are configured.
func NewTwilio(cfg TwilioConfig) Notifier {
	logger := log.WithComponent("notify")
	if cfg.AccountSID == "" || cfg.AuthToken == "" || cfg.AdminPhone == "" {
		logger.Warn().Msg("twilio credentials missing, admin notifications disabled")
		return Disabled{}
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultTwilioBaseURL
	}
	logger.Info().Str("admin", log.MaskUser(cfg.AdminPhone)).Msg("admin notifications enabled")
	return &TwilioNotifier{
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		admin:      cfg.AdminPhone,
		baseURL:    base,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

func (n *TwilioNotifier) NewOrder(ctx context.Context, userPhone string, items []domain.LineItem) error {
	err := n.send(ctx, orderBody(userPhone, items))
	n.count("order", err)
	return err
}

func (n *TwilioNotifier) Handoff(ctx context.Context, userPhone, reason string) error {
	err := n.send(ctx, handoffBody(userPhone, reason))
	n.count("handoff", err)
	return err
}

func (n *TwilioNotifier) count(kind string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	metrics.NotifyTotal.WithLabelValues(kind, outcome).Inc()
}

// whatsappNumber ensures the channel prefix Twilio requires.
func whatsappNumber(number string) string {
	if strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

func (n *TwilioNotifier) send(ctx context.Context, body string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", n.baseURL, n.accountSID)

	form := url.Values{}
	form.Set("From", whatsappNumber(n.from))
	form.Set("To", whatsappNumber(n.admin))
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("notify: build request: %w", err)
	}
	req.SetBasicAuth(n.accountSID, n.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: send: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: twilio returned %d: %s", resp.StatusCode, string(payload))
	}
	return nil
}
