package app

import (
	"context"
	"testing"
	"time"

	"github.com/KennethLeeJE8/datadam-sub000/internal/cache"
	"github.com/KennethLeeJE8/datadam-sub000/internal/engine"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
	"github.com/KennethLeeJE8/datadam-sub000/internal/rules"
	"github.com/KennethLeeJE8/datadam-sub000/internal/scanner"
	"github.com/KennethLeeJE8/datadam-sub000/internal/testutil"
)

const monitorPage = `<form class="signup-form"><input type="email" name="email"></form>`

func newMonitorFixture(t *testing.T) (*monitorSet, *scanner.Monitor, *engine.Engine) {
	t.Helper()
	logger := &testutil.DummyLogger{}

	// The response delay keeps the first scan from finishing before the test
	// has subscribed.
	wc := &testutil.DummyWebClient{
		Pages:         map[string]string{"https://example.com/signup": monitorPage},
		ResponseDelay: 50 * time.Millisecond,
	}

	cfg := scanner.DefaultConfig()
	cfg.RescanDebounce = time.Millisecond
	sc := scanner.New(cfg, logger)
	mon := scanner.NewMonitor("https://example.com/signup", 10*time.Millisecond, cfg, sc, wc, logger)

	store := &testutil.DummyRecordStore{Records: []model.Record{
		{ID: "r1", Title: "Me", Content: map[string]string{"email": "a@example.com"}},
	}}
	eng := engine.New(engine.DefaultConfig(), rules.NewAdmin(rules.DefaultTable()), store, cache.New(cache.DefaultConfig(), logger), nil, logger)

	return newMonitorSet(logger), mon, eng
}

func TestMonitorSet_DeliversEnrichedEvents(t *testing.T) {
	set, mon, eng := newMonitorFixture(t)

	info := set.start(context.Background(), mon, eng)
	defer set.stop(info.ID)

	events, cancel, ok := set.subscribe(info.ID)
	if !ok {
		t.Fatal("subscribe failed for running monitor")
	}
	defer cancel()

	select {
	case ev := <-events:
		if ev.MonitorID != info.ID {
			t.Errorf("event for wrong monitor: %q", ev.MonitorID)
		}
		if ev.Report == nil {
			t.Fatal("event missing match report")
		}
		if len(ev.Report.Matches) != 1 || ev.Report.Matches[0].FieldType != "email" {
			t.Errorf("unexpected report: %+v", ev.Report)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for enriched event")
	}
}

func TestMonitorSet_ListAndStop(t *testing.T) {
	set, mon, eng := newMonitorFixture(t)

	info := set.start(context.Background(), mon, eng)

	list := set.list()
	if len(list) != 1 || list[0].ID != info.ID {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list[0].Interval != 10*time.Millisecond || list[0].StartedAt.IsZero() {
		t.Errorf("info not populated: %+v", list[0])
	}

	if !set.stop(info.ID) {
		t.Fatal("stop returned false for running monitor")
	}

	// A stopped monitor leaves the visible set immediately, not whenever the
	// poll loop happens to unwind.
	if got := set.list(); len(got) != 0 {
		t.Fatalf("stopped monitor still listed: %+v", got)
	}
	if set.stop(info.ID) {
		t.Error("second stop must report false")
	}
	if _, _, ok := set.subscribe(info.ID); ok {
		t.Error("subscribe must fail after stop")
	}
}

func TestMonitorSet_StopUnknown(t *testing.T) {
	set, _, _ := newMonitorFixture(t)
	if set.stop("nope") {
		t.Error("stop must report false for unknown id")
	}
}

func TestMonitorSet_SubscribeUnknown(t *testing.T) {
	set, _, _ := newMonitorFixture(t)
	if _, _, ok := set.subscribe("nope"); ok {
		t.Error("subscribe must report false for unknown id")
	}
}

func TestMonitorSet_SubscriberClosedOnTeardown(t *testing.T) {
	set, mon, eng := newMonitorFixture(t)

	info := set.start(context.Background(), mon, eng)
	events, cancel, ok := set.subscribe(info.ID)
	if !ok {
		t.Fatal("subscribe failed")
	}

	set.stop(info.ID)

	deadline := time.After(2 * time.Second)
	for {
		select {
		case _, open := <-events:
			if !open {
				// Calling cancel after teardown already closed the channel
				// must be a no-op, not a double close.
				cancel()
				cancel()
				return
			}
		case <-deadline:
			t.Fatal("subscriber channel not closed on teardown")
		}
	}
}
