package metrics

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zq535228/UptimeGuard/internal/state"
)

// Server exposes Prometheus-style metrics based on current site state.
type Server struct {
	tracker state.Tracker
}

// NewServer constructs a metrics server.
func NewServer(tracker state.Tracker) *Server {
	return &Server{tracker: tracker}
}

// Handler returns an http handler that serves metrics.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		bw := bufio.NewWriter(w)
		defer bw.Flush()
		s.writeMetrics(bw)
	})
}

func (s *Server) writeMetrics(w *bufio.Writer) {
	snapshot := s.tracker.Snapshot()
	writeAggregated(w, snapshot)
	writePerSite(w, snapshot)
}

func writeAggregated(w *bufio.Writer, snapshot []state.SiteState) {
	var upCount, downCount, unknownCount int
	for _, site := range snapshot {
		switch site.Status {
		case state.StatusUp:
			upCount++
		case state.StatusDown:
			downCount++
		default:
			unknownCount++
		}
	}
	fmt.Fprintf(w, "uptimeguard_sites_total %d\n", len(snapshot))
	fmt.Fprintf(w, "uptimeguard_sites_up %d\n", upCount)
	fmt.Fprintf(w, "uptimeguard_sites_down %d\n", downCount)
	fmt.Fprintf(w, "uptimeguard_sites_unknown %d\n", unknownCount)
}

func writePerSite(w *bufio.Writer, snapshot []state.SiteState) {
	for _, site := range snapshot {
		labels := fmt.Sprintf(`name="%s",url="%s"`, escapeLabel(site.Name), escapeLabel(site.URL))
		up := 0
		if site.Status == state.StatusUp {
			up = 1
		}
		fmt.Fprintf(w, "uptimeguard_site_up{%s} %d\n", labels, up)
		fmt.Fprintf(w, "uptimeguard_site_consecutive_failures{%s} %d\n", labels, site.ConsecutiveFailures)
		if site.LastResult.LatencyMS > 0 {
			fmt.Fprintf(w, "uptimeguard_site_latency_ms{%s} %d\n", labels, site.LastResult.LatencyMS)
		}
	}
}

func escapeLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// Serve starts an HTTP server and blocks until context cancellation.
func Serve(ctx context.Context, addr string, tracker state.Tracker) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", NewServer(tracker).Handler())
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return ctx.Err()
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return context.Canceled
		}
		return err
	}
}
