package notify

import (
	"context"
	"fmt"
	"time"

	gomail "gopkg.in/gomail.v2"

	"github.com/zq535228/UptimeGuard/internal/config"
)

// EmailNotifier delivers notifications over SMTP.
type EmailNotifier struct {
	cfg config.EmailConfig
}

// NewEmailNotifier builds a notifier from the environment-derived config.
func NewEmailNotifier(cfg config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Notify sends one email per event. SMTP dialing has no context hook, so the
// ctx is only consulted before dialing.
func (n *EmailNotifier) Notify(ctx context.Context, event Event) error {
	if !n.cfg.Configured() {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", n.cfg.To)
	m.SetHeader("Subject", emailSubject(event))
	m.SetBody("text/html", emailBody(event))

	dialer := gomail.NewDialer(n.cfg.Host, n.cfg.Port, n.cfg.Username, n.cfg.Password)
	if err := dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("email send: %w", err)
	}
	return nil
}

func emailSubject(event Event) string {
	switch event.Kind {
	case KindRecovery:
		return fmt.Sprintf("[UptimeGuard] %s recovered", event.SiteName)
	case KindFailureUpdate:
		return fmt.Sprintf("[UptimeGuard] %s still down (%d failures)", event.SiteName, event.ConsecutiveFailures)
	default:
		return fmt.Sprintf("[UptimeGuard] %s is down", event.SiteName)
	}
}

func emailBody(event Event) string {
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	if event.Kind == KindRecovery {
		return fmt.Sprintf(
			"<p><b>%s</b> (%s) is reachable again.</p><p>Latency: %d ms<br>Recovered at: %s</p>",
			event.SiteName, event.SiteURL, event.LatencyMS, timestamp,
		)
	}
	body := fmt.Sprintf(
		"<p><b>%s</b> (%s) is not reachable.</p><p>Consecutive failures: %d<br>Checked at: %s</p>",
		event.SiteName, event.SiteURL, event.ConsecutiveFailures, timestamp,
	)
	if event.Reason != "" {
		body += fmt.Sprintf("<p>Details: %s</p>", event.Reason)
	}
	return body
}
