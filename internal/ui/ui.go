package ui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/zq535228/UptimeGuard/internal/config"
	"github.com/zq535228/UptimeGuard/internal/state"
)

const (
	uiRefreshInterval = 500 * time.Millisecond
	minScreenWidth    = 40
	minScreenHeight   = 5
)

// UI renders a terminal view of site status. Refresh cadence is independent
// of the probe interval; it only reads tracker snapshots.
type UI struct {
	cfg     config.Options
	tracker state.Tracker
}

// New returns a UI instance.
func New(cfg config.Options, tracker state.Tracker) *UI {
	return &UI{cfg: cfg, tracker: tracker}
}

// Run blocks until the context is cancelled or the user quits.
func (u *UI) Run(ctx context.Context) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	screen.HideCursor()
	defer screen.Fini()

	eventCh := make(chan tcell.Event, 1)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case eventCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	ticker := time.NewTicker(uiRefreshInterval)
	defer ticker.Stop()

	u.render(screen, u.tracker.Snapshot())
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-eventCh:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
					return context.Canceled
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			u.render(screen, u.tracker.Snapshot())
		}
	}
}

func (u *UI) render(screen tcell.Screen, snapshot []state.SiteState) {
	screen.Clear()
	width, height := screen.Size()
	if width < minScreenWidth || height < minScreenHeight {
		screen.Show()
		return
	}

	now := time.Now().Format("2006-01-02 15:04:05")
	header := fmt.Sprintf(" UptimeGuard  %s  (q to quit)", now)
	drawText(screen, 0, 0, width, header, tcell.StyleDefault.Bold(true))

	configInfo := fmt.Sprintf(" interval=%s  timeout=%s  threshold=%d  sites=%d",
		u.cfg.Interval, u.cfg.Timeout, u.cfg.FailureThreshold, len(snapshot))
	drawText(screen, 0, 1, width, configInfo, tcell.StyleDefault.Foreground(tcell.ColorGray))

	columns := " NAME             URL                           STAT  HTTP  SSL  KEYWD  LATENCY  FAILS"
	drawText(screen, 0, 2, width, columns, tcell.StyleDefault.Bold(true))

	maxRows := height - 3
	for i := 0; i < len(snapshot) && i < maxRows; i++ {
		site := snapshot[i]
		drawStyledText(screen, 0, 3+i, width, u.formatSiteLine(width, site))
	}

	screen.Show()
}

func (u *UI) formatSiteLine(width int, site state.SiteState) []styledRune {
	style := statusStyle(site.Status)
	result := site.LastResult

	parts := []styledText{
		{text: " " + padOrTrim(site.Name, 16), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(site.URL, 29), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(string(site.Status), 5), style: style},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(formatHTTPCode(result.StatusCode), 5), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(string(result.TLS), 4), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(string(result.Keyword), 6), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(formatLatency(result.LatencyMS), 8), style: tcell.StyleDefault},
		{text: " ", style: tcell.StyleDefault},
		{text: padOrTrim(strconv.Itoa(site.ConsecutiveFailures), 6), style: style},
	}
	return flattenStyledText(parts, width)
}

func formatHTTPCode(code int) string {
	if code == 0 {
		return "-"
	}
	return strconv.Itoa(code)
}

func formatLatency(ms int64) string {
	if ms <= 0 {
		return "-"
	}
	if ms < 1000 {
		return fmt.Sprintf("%dms", ms)
	}
	return fmt.Sprintf("%.1fs", float64(ms)/1000)
}

func statusStyle(status state.Status) tcell.Style {
	switch status {
	case state.StatusUp:
		return tcell.StyleDefault.Foreground(tcell.ColorGreen)
	case state.StatusDown:
		return tcell.StyleDefault.Foreground(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Foreground(tcell.ColorGray)
	}
}

type styledText struct {
	text  string
	style tcell.Style
}

type styledRune struct {
	r     []rune
	style tcell.Style
}

func drawText(screen tcell.Screen, x, y, width int, text string, style tcell.Style) {
	drawStyledText(screen, x, y, width, []styledRune{{r: []rune(text), style: style}})
}

func drawStyledText(screen tcell.Screen, x, y, width int, parts []styledRune) {
	if width <= 0 {
		return
	}
	col := x
	for _, part := range parts {
		for _, r := range part.r {
			if col >= x+width {
				return
			}
			screen.SetContent(col, y, r, nil, part.style)
			col++
		}
	}
	for col < x+width {
		screen.SetContent(col, y, ' ', nil, tcell.StyleDefault)
		col++
	}
}

func flattenStyledText(parts []styledText, width int) []styledRune {
	result := make([]styledRune, 0, len(parts))
	used := 0
	for _, part := range parts {
		runes := []rune(part.text)
		if used+len(runes) > width {
			if width-used < 0 {
				runes = nil
			} else {
				runes = runes[:width-used]
			}
		}
		result = append(result, styledRune{r: runes, style: part.style})
		used += len(runes)
		if used >= width {
			break
		}
	}
	return result
}

func padOrTrim(value string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(value)
	if len(runes) > width {
		return string(runes[:width])
	}
	if len(runes) < width {
		return value + strings.Repeat(" ", width-len(runes))
	}
	return value
}
