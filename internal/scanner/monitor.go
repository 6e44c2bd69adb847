package scanner

import (
	"bytes"
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/KennethLeeJE8/datadam-sub000/internal/classifier"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/webclient"
)

// FieldEvent is emitted whenever a monitor (re)scans its page. Fields arrive
// already classified.
type FieldEvent struct {
	MonitorID string                `json:"monitor_id"`
	ScanID    string                `json:"scan_id"`
	URL       string                `json:"url"`
	Fields    []model.DetectedField `json:"fields"`
	At        time.Time             `json:"at"`

	// AddedControls and RemovedControls are the skeleton lines that appeared
	// or vanished relative to the previous poll. Both are empty on the first
	// scan.
	AddedControls   []string `json:"added_controls,omitempty"`
	RemovedControls []string `json:"removed_controls,omitempty"`
}

// Monitor polls one page and rescans it when the structural skeleton of its
// forms changes. Rescans are debounced so bursts of mutations between polls
// collapse into a single scan.
type Monitor struct {
	ID  string
	URL string

	cfg      Config
	interval time.Duration
	scanner  *Scanner
	wc       webclient.WebClient
	logger   logging.Logger
	events   chan FieldEvent

	prevSkeleton string
}

// NewMonitor creates a monitor for url polling at interval (config default
// when zero).
func NewMonitor(url string, interval time.Duration, cfg Config, sc *Scanner, wc webclient.WebClient, logger logging.Logger) *Monitor {
	if interval <= 0 {
		interval = cfg.PollInterval
	}
	id := uuid.New().String()
	return &Monitor{
		ID:       id,
		URL:      url,
		cfg:      cfg,
		interval: interval,
		scanner:  sc,
		wc:       wc,
		logger:   logger.With(logging.Field{Key: "component", Value: "monitor"}),
		events:   make(chan FieldEvent, 16),
	}
}

// Events is the stream of scan results. It is closed when Run returns.
func (m *Monitor) Events() <-chan FieldEvent {
	return m.events
}

// Interval reports the poll interval.
func (m *Monitor) Interval() time.Duration {
	return m.interval
}

// Run polls until ctx is canceled. The first poll always scans; later polls
// scan only after a structural change.
func (m *Monitor) Run(ctx context.Context) {
	defer close(m.events)

	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

func (m *Monitor) poll(ctx context.Context) {
	resp, err := m.wc.Do(ctx, &model.Request{Method: "GET", URL: m.URL})
	if err != nil {
		m.logger.Warn("poll failed",
			logging.Field{Key: "url", Value: m.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}

	skeleton := Skeleton(resp.Body)
	first := m.prevSkeleton == ""
	var added, removed []string
	if !first {
		added, removed = SkeletonDiff(m.prevSkeleton, skeleton)
		if len(added) == 0 && len(removed) == 0 {
			return
		}
		m.logger.Debug("form structure changed",
			logging.Field{Key: "url", Value: m.URL},
			logging.Field{Key: "added", Value: added},
			logging.Field{Key: "removed", Value: removed})

		// Debounce: let a burst of mutations settle before rescanning.
		select {
		case <-ctx.Done():
			return
		case <-time.After(m.cfg.RescanDebounce):
		}
	}
	m.prevSkeleton = skeleton

	fields, err := m.scanner.Scan(m.URL, resp.Body)
	if err != nil {
		m.logger.Warn("scan failed",
			logging.Field{Key: "url", Value: m.URL},
			logging.Field{Key: "error", Value: err.Error()})
		return
	}
	for i := range fields {
		fields[i].InferredType, fields[i].Confidence = classifier.Classify(&fields[i])
	}

	ev := FieldEvent{
		MonitorID:       m.ID,
		ScanID:          uuid.New().String(),
		URL:             m.URL,
		Fields:          fields,
		At:              time.Now().UTC(),
		AddedControls:   added,
		RemovedControls: removed,
	}

	// Non-blocking send; drop if no listener is keeping up.
	select {
	case m.events <- ev:
	default:
		m.logger.Debug("dropped field event", logging.Field{Key: "monitor_id", Value: m.ID})
	}
}

// Skeleton reduces page HTML to the structural outline of its forms: one
// line per form control with tag, type, name and id. Text and attribute
// churn elsewhere on the page does not alter the skeleton.
func Skeleton(body []byte) string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	var b strings.Builder
	doc.Find("form, input, textarea, select").Each(func(_ int, sel *goquery.Selection) {
		b.WriteString(goquery.NodeName(sel))
		b.WriteByte('|')
		b.WriteString(attr(sel, "type"))
		b.WriteByte('|')
		b.WriteString(attr(sel, "name"))
		b.WriteByte('|')
		b.WriteString(attr(sel, "id"))
		b.WriteByte('\n')
	})
	return b.String()
}

// SkeletonDiff compares two skeletons line-wise and returns the control
// lines present only in cur (added) and only in prev (removed). Both empty
// means no structural change.
func SkeletonDiff(prev, cur string) (added, removed []string) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(prev, cur)
	for _, d := range dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines) {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if line == "" {
				continue
			}
			if d.Type == diffmatchpatch.DiffInsert {
				added = append(added, line)
			} else {
				removed = append(removed, line)
			}
		}
	}
	return added, removed
}
