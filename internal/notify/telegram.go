package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff"

	"github.com/zq535228/UptimeGuard/internal/config"
)

const telegramSendTimeout = 10 * time.Second

// TelegramNotifier delivers notifications through the Telegram Bot API.
type TelegramNotifier struct {
	cfg        config.TelegramConfig
	client     *http.Client
	maxRetries uint64
}

// NewTelegramNotifier builds a notifier from the environment-derived config.
func NewTelegramNotifier(cfg config.TelegramConfig) *TelegramNotifier {
	if cfg.APIBase == "" {
		cfg.APIBase = "https://api.telegram.org"
	}
	return &TelegramNotifier{
		cfg:        cfg,
		client:     &http.Client{Timeout: telegramSendTimeout},
		maxRetries: 5,
	}
}

// Notify formats and sends one message, retrying transient failures with
// capped exponential backoff.
func (n *TelegramNotifier) Notify(ctx context.Context, event Event) error {
	if !n.cfg.Configured() {
		return nil
	}
	message := formatTelegramMessage(event)
	operation := func() error {
		return n.send(ctx, message)
	}
	if err := backoff.Retry(operation, n.newBackoff(ctx)); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func (n *TelegramNotifier) send(ctx context.Context, message string) error {
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.cfg.APIBase, n.cfg.BotToken)
	form := url.Values{
		"chat_id":                  {n.cfg.ChatID},
		"text":                     {message},
		"parse_mode":               {"HTML"},
		"disable_web_page_preview": {"true"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var apiResp struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return fmt.Errorf("decode telegram response: %w", err)
	}
	if !apiResp.OK {
		return fmt.Errorf("telegram api error: %s", apiResp.Description)
	}
	return nil
}

func (n *TelegramNotifier) newBackoff(ctx context.Context) backoff.BackOff {
	policy := &backoff.ExponentialBackOff{
		InitialInterval:     500 * time.Millisecond,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         5 * time.Second,
		MaxElapsedTime:      30 * time.Second,
		Clock:               backoff.SystemClock,
	}
	policy.Reset()
	return backoff.WithContext(backoff.WithMaxRetries(policy, n.maxRetries), ctx)
}

func formatTelegramMessage(event Event) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	var b strings.Builder

	switch event.Kind {
	case KindRecovery:
		b.WriteString("✅ <b>Site Recovered</b>\n\n")
		fmt.Fprintf(&b, "• Name: %s\n", event.SiteName)
		fmt.Fprintf(&b, "• URL: %s\n", event.SiteURL)
		fmt.Fprintf(&b, "• Latency: %d ms\n\n", event.LatencyMS)
		fmt.Fprintf(&b, "⏰ Recovered at: %s", timestamp)
	case KindFailureUpdate:
		b.WriteString("🚨 <b>Site Still Down</b>\n\n")
		fmt.Fprintf(&b, "• Name: %s\n", event.SiteName)
		fmt.Fprintf(&b, "• URL: %s\n", event.SiteURL)
		fmt.Fprintf(&b, "• Consecutive failures: %d\n\n", event.ConsecutiveFailures)
		fmt.Fprintf(&b, "⏰ Checked at: %s", timestamp)
		if event.Reason != "" {
			fmt.Fprintf(&b, "\n\n🔍 <b>Details:</b> %s", event.Reason)
		}
	default:
		b.WriteString("🚨 <b>Site Down Alert</b>\n\n")
		fmt.Fprintf(&b, "• Name: %s\n", event.SiteName)
		fmt.Fprintf(&b, "• URL: %s\n", event.SiteURL)
		fmt.Fprintf(&b, "• Consecutive failures: %d\n\n", event.ConsecutiveFailures)
		fmt.Fprintf(&b, "⏰ Checked at: %s", timestamp)
		if event.Reason != "" {
			fmt.Fprintf(&b, "\n\n🔍 <b>Details:</b> %s", event.Reason)
		}
	}
	return b.String()
}
