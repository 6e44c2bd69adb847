package webclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/KennethLeeJE8/datadam-sub000/internal/logging"
	"github.com/KennethLeeJE8/datadam-sub000/internal/model"
)

// ChromeDPClient renders pages in headless Chrome so forms injected by
// scripts are visible to the scanner.
type ChromeDPClient struct {
	cfg    Config
	logger logging.Logger

	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromeDPClient creates a chromedp-backed WebClient sharing one browser
// allocator across requests.
func NewChromeDPClient(cfg Config, logger logging.Logger) (WebClient, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(),
		chromedp.DefaultExecAllocatorOptions[:]...)

	return &ChromeDPClient{
		cfg:         cfg,
		logger:      logger.With(logging.Field{Key: "component", Value: "webclient-chromedp"}),
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
	}, nil
}

// waitNetworkIdle signals once no network request has been active for
// idleAfter. Bursty pages keep resetting the timer until they settle.
func waitNetworkIdle(ctx context.Context, idleAfter time.Duration) chan struct{} {
	idleChan := make(chan struct{})
	var activeReqs int32
	var timer *time.Timer
	var timerMutex sync.Mutex
	var once sync.Once

	startTimer := func() {
		timerMutex.Lock()
		defer timerMutex.Unlock()

		if timer != nil {
			timer.Stop()
		}

		timer = time.AfterFunc(idleAfter, func() {
			if atomic.LoadInt32(&activeReqs) == 0 {
				once.Do(func() {
					close(idleChan)
				})
			}
		})
	}

	chromedp.ListenTarget(ctx,
		func(ev any) {
			switch ev.(type) {
			case *network.EventRequestWillBeSent:
				atomic.AddInt32(&activeReqs, 1)
			case *network.EventLoadingFinished, *network.EventLoadingFailed:
				if atomic.AddInt32(&activeReqs, -1) == 0 {
					startTimer()
				}
			}
		})

	// Quiet pages issue no requests at all; arm the timer once up front.
	startTimer()

	return idleChan
}

// Do navigates to the request URL, waits for network idle, and returns the
// rendered outer HTML. Only GET-style page loads are supported.
func (cdc *ChromeDPClient) Do(ctx context.Context, req *model.Request) (*model.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	tabCtx, cancel := chromedp.NewContext(cdc.allocCtx)
	defer cancel()

	if cdc.cfg.Timeout > 0 {
		var timeoutCancel context.CancelFunc
		tabCtx, timeoutCancel = context.WithTimeout(tabCtx, cdc.cfg.Timeout)
		defer timeoutCancel()
	}

	idleAfter := cdc.cfg.NetworkIdleAfter
	if idleAfter == 0 {
		idleAfter = 2 * time.Second
	}
	waitIdleChan := waitNetworkIdle(tabCtx, idleAfter)

	if err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(req.URL),
	); err != nil {
		return nil, fmt.Errorf("navigate %s: %w", req.URL, err)
	}

	select {
	case <-waitIdleChan:
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-tabCtx.Done():
		return nil, tabCtx.Err()
	}

	var rendered string
	if err := chromedp.Run(tabCtx, chromedp.OuterHTML("html", &rendered)); err != nil {
		return nil, fmt.Errorf("read outer html: %w", err)
	}

	cdc.logger.Debug("rendered page",
		logging.Field{Key: "url", Value: req.URL},
		logging.Field{Key: "size_bytes", Value: len(rendered)})

	return &model.Response{
		Request:    req,
		Headers:    http.Header{},
		Body:       []byte(rendered),
		StatusCode: http.StatusOK,
		FetchedAt:  time.Now().UTC(),
	}, nil
}

// Close tears down the shared browser allocator.
func (cdc *ChromeDPClient) Close() error {
	cdc.allocCancel()
	return nil
}
