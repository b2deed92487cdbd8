package log

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/zq535228/UptimeGuard/internal/probe"
)

const (
	probeLogMaxLines  = 5000
	probeLogKeepLines = 2500
)

// ProbeLog appends one line per probe to a log file in the format the
// external log viewer consumes. Once the file grows past probeLogMaxLines it
// is truncated to the newest probeLogKeepLines.
type ProbeLog struct {
	mu      sync.Mutex
	path    string
	lines   int
	counted bool
}

// NewProbeLog returns a probe log writing to the given path.
func NewProbeLog(path string) *ProbeLog {
	return &ProbeLog{path: path}
}

// FormatProbeLine renders the per-probe log line contract:
//
//	timestamp name=<name> url=<url> status=<up|down> http=<code|->
//	ssl=<up|down|-> keyword=<match|miss|-> latency_ms=<n> [error=<reason>]
func FormatProbeLine(name, url string, result probe.Result) string {
	status := "down"
	if result.Up {
		status = "up"
	}
	httpField := "-"
	if result.StatusCode != 0 {
		httpField = strconv.Itoa(result.StatusCode)
	}

	parts := []string{
		result.Timestamp.Format("2006-01-02 15:04:05"),
		"name=" + name,
		"url=" + url,
		"status=" + status,
		"http=" + httpField,
		"ssl=" + string(result.TLS),
		"keyword=" + string(result.Keyword),
		fmt.Sprintf("latency_ms=%d", result.LatencyMS),
	}
	if result.Reason != "" {
		parts = append(parts, "error="+result.Reason)
	}
	return strings.Join(parts, " ")
}

// Append writes one line, creating the log directory on first use.
func (p *ProbeLog) Append(line string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.counted {
		p.lines = countLines(p.path)
		p.counted = true
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(p.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open probe log: %w", err)
	}
	if _, err := f.WriteString(line + "\n"); err != nil {
		f.Close()
		return fmt.Errorf("write probe log: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close probe log: %w", err)
	}

	p.lines++
	if p.lines > probeLogMaxLines {
		if err := p.trim(); err != nil {
			return err
		}
	}
	return nil
}

// AppendResult formats and writes the probe line for a result.
func (p *ProbeLog) AppendResult(name, url string, result probe.Result) error {
	return p.Append(FormatProbeLine(name, url, result))
}

func (p *ProbeLog) trim() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return fmt.Errorf("read probe log for trim: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) <= probeLogKeepLines {
		p.lines = len(lines)
		return nil
	}
	kept := lines[len(lines)-probeLogKeepLines:]
	if err := os.WriteFile(p.path, []byte(strings.Join(kept, "\n")+"\n"), 0o644); err != nil {
		return fmt.Errorf("trim probe log: %w", err)
	}
	p.lines = len(kept)
	return nil
}

func countLines(path string) int {
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return 0
	}
	return strings.Count(string(data), "\n")
}
