package app

import (
	"context"
	"sync"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/engine"
	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/scanner"
)

// MonitorEvent is a scan event enriched with the match report produced for
// it. Report is nil when matching was superseded or failed outright.
type MonitorEvent struct {
	scanner.FieldEvent
	Report *model.MatchReport `json:"report,omitempty"`
}

// MonitorInfo is the externally visible description of a running monitor.
type MonitorInfo struct {
	ID        string        `json:"id"`
	URL       string        `json:"url"`
	Interval  time.Duration `json:"interval"`
	StartedAt time.Time     `json:"started_at"`
}

// monitorSet owns the running monitors, their cancel functions, and the
// fan-out to subscribers.
type monitorSet struct {
	mu      sync.Mutex
	logger  logging.Logger
	infos   map[string]MonitorInfo
	cancels map[string]context.CancelFunc
	subs    map[string]map[chan MonitorEvent]struct{}
}

func newMonitorSet(logger logging.Logger) *monitorSet {
	return &monitorSet{
		logger:  logger.With(logging.Field{Key: "component", Value: "monitors"}),
		infos:   make(map[string]MonitorInfo),
		cancels: make(map[string]context.CancelFunc),
		subs:    make(map[string]map[chan MonitorEvent]struct{}),
	}
}

// start launches the monitor's poll loop plus a consumer that matches every
// scan. A new scan supersedes the previous one: its in-flight match is
// canceled so stale results never resolve later.
func (s *monitorSet) start(parent context.Context, mon *scanner.Monitor, eng *engine.Engine) *MonitorInfo {
	info := MonitorInfo{
		ID:        mon.ID,
		URL:       mon.URL,
		Interval:  mon.Interval(),
		StartedAt: time.Now().UTC(),
	}

	ctx, cancel := context.WithCancel(parent)

	s.mu.Lock()
	s.infos[mon.ID] = info
	s.cancels[mon.ID] = cancel
	s.subs[mon.ID] = make(map[chan MonitorEvent]struct{})
	s.mu.Unlock()

	go mon.Run(ctx)

	go func() {
		defer s.remove(mon.ID)

		var prevMatchCancel context.CancelFunc
		for ev := range mon.Events() {
			if prevMatchCancel != nil {
				prevMatchCancel()
			}
			matchCtx, matchCancel := context.WithCancel(ctx)
			prevMatchCancel = matchCancel

			report, err := eng.MatchFieldsToStore(matchCtx, ev.Fields)
			if err != nil {
				s.logger.Warn("monitor match failed",
					logging.Field{Key: "monitor_id", Value: mon.ID},
					logging.Field{Key: "error", Value: err.Error()})
			}

			s.publish(mon.ID, MonitorEvent{FieldEvent: ev, Report: report})
		}
		if prevMatchCancel != nil {
			prevMatchCancel()
		}
	}()

	return &info
}

func (s *monitorSet) publish(id string, ev MonitorEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for ch := range s.subs[id] {
		// Non-blocking send; drop for slow subscribers.
		select {
		case ch <- ev:
		default:
		}
	}
}

func (s *monitorSet) subscribe(id string) (<-chan MonitorEvent, func(), bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	subs, ok := s.subs[id]
	if !ok {
		return nil, nil, false
	}
	// A stopped monitor keeps its subs map until remove runs, but takes no
	// new subscribers.
	if _, live := s.infos[id]; !live {
		return nil, nil, false
	}

	ch := make(chan MonitorEvent, 16)
	subs[ch] = struct{}{}

	// Whoever removes the channel from the set closes it, so a subscriber
	// canceling after the monitor tore down does not double-close.
	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if set, ok := s.subs[id]; ok {
			if _, present := set[ch]; present {
				delete(set, ch)
				close(ch)
			}
		}
	}
	return ch, cancel, true
}

func (s *monitorSet) list() []MonitorInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]MonitorInfo, 0, len(s.infos))
	for _, info := range s.infos {
		out = append(out, info)
	}
	return out
}

// stop cancels the monitor and drops it from the visible set at once, so
// list and subscribe stop seeing it before the poll loop has unwound.
// Subscriber channels stay open until remove runs; they close when the event
// stream drains.
func (s *monitorSet) stop(id string) bool {
	s.mu.Lock()
	cancel, ok := s.cancels[id]
	if ok {
		delete(s.cancels, id)
		delete(s.infos, id)
	}
	s.mu.Unlock()
	if ok {
		cancel()
	}
	return ok
}

// remove drops the remaining bookkeeping after a monitor's event stream
// closes. infos and cancels may already be gone when stop ran first.
func (s *monitorSet) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.infos, id)
	if cancel, ok := s.cancels[id]; ok {
		cancel()
		delete(s.cancels, id)
	}
	for ch := range s.subs[id] {
		delete(s.subs[id], ch)
		close(ch)
	}
	delete(s.subs, id)
}
