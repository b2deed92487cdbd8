package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/probe"
	"github.com/zq535228/UptimeGuard/internal/state"
)

func scrape(t *testing.T, tracker state.Tracker) string {
	t.Helper()
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	NewServer(tracker).Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", recorder.Code)
	}
	return recorder.Body.String()
}

func TestMetricsAggregates(t *testing.T) {
	up := config.SiteConfig{Name: "up-site", URL: "https://up.test"}
	down := config.SiteConfig{Name: "down-site", URL: "https://down.test"}
	fresh := config.SiteConfig{Name: "fresh-site", URL: "https://fresh.test"}
	tracker := state.NewTracker([]config.SiteConfig{up, down, fresh})
	tracker.Record(up, probe.Result{Up: true, StatusCode: 200, LatencyMS: 42})
	tracker.Record(down, probe.Result{Reason: "connection failed"})

	body := scrape(t, tracker)
	for _, want := range []string{
		"uptimeguard_sites_total 3\n",
		"uptimeguard_sites_up 1\n",
		"uptimeguard_sites_down 1\n",
		"uptimeguard_sites_unknown 1\n",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in output:\n%s", want, body)
		}
	}
}

func TestMetricsPerSite(t *testing.T) {
	site := config.SiteConfig{Name: "example", URL: "https://example.com"}
	tracker := state.NewTracker([]config.SiteConfig{site})
	tracker.Record(site, probe.Result{Reason: "request timeout"})
	tracker.Record(site, probe.Result{Reason: "request timeout", LatencyMS: 5000})

	body := scrape(t, tracker)
	labels := `name="example",url="https://example.com"`
	for _, want := range []string{
		"uptimeguard_site_up{" + labels + "} 0\n",
		"uptimeguard_site_consecutive_failures{" + labels + "} 2\n",
		"uptimeguard_site_latency_ms{" + labels + "} 5000\n",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in output:\n%s", want, body)
		}
	}
}

func TestMetricsEscapesLabels(t *testing.T) {
	site := config.SiteConfig{Name: `quo"te`, URL: "https://q.test"}
	tracker := state.NewTracker([]config.SiteConfig{site})

	body := scrape(t, tracker)
	if !strings.Contains(body, `name="quo\"te"`) {
		t.Fatalf("expected escaped quote in labels:\n%s", body)
	}
}

func TestMetricsRejectsNonGet(t *testing.T) {
	tracker := state.NewTracker(nil)
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/metrics", nil)
	NewServer(tracker).Handler().ServeHTTP(recorder, request)
	if recorder.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", recorder.Code)
	}
}
