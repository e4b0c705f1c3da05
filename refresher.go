// Copyright The Wechat Pay Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package wechatpay

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// refresherState names the Certificate Refresher's state machine. It
// is only ever read or written from inside run, so it needs no
// synchronization of its own.
type refresherState int

const (
	stateIdle refresherState = iota
	stateScheduled
	stateRefreshing
	stateStopped
)

type cmdKind int

const (
	cmdEnable cmdKind = iota
	cmdDisable
)

type refresherCmd struct {
	kind     cmdKind
	interval time.Duration
}

// Refresher periodically fetches /v3/certificates, decrypts the
// payload, and replaces the Certificate Store contents inside the
// Config Store. It is a single goroutine owning one timer; Enable and
// Disable are commands sent over a channel rather than separate timers
// racing each other.
type Refresher struct {
	client *Client
	logger *zap.Logger

	// guard is a buffered(1) channel used as a mutex: acquired by
	// receive, released by send. It keeps a manual Refresh call and a
	// scheduled tick from ever running concurrently.
	guard chan struct{}

	cmd       chan refresherCmd
	stopCh    chan struct{}
	stoppedCh chan struct{}

	state    refresherState
	interval time.Duration
}

// NewRefresher builds a Refresher for client, starting in the Idle
// state with no schedule. Call Enable to start the periodic tick.
func NewRefresher(client *Client, logger *zap.Logger) *Refresher {
	if logger == nil {
		logger = NewLogger(LogConfig{})
	}
	r := &Refresher{
		client:    client,
		logger:    logger,
		guard:     make(chan struct{}, 1),
		cmd:       make(chan refresherCmd),
		stopCh:    make(chan struct{}),
		stoppedCh: make(chan struct{}),
		state:     stateIdle,
	}
	r.guard <- struct{}{}
	go r.run()
	return r
}

// Enable cancels any pending timer and schedules the next tick after
// interval (defaultRefreshEvery if interval <= 0).
func (r *Refresher) Enable(interval time.Duration) {
	if interval <= 0 {
		interval = defaultRefreshEvery
	}
	r.cmd <- refresherCmd{kind: cmdEnable, interval: interval}
}

// Disable cancels any pending timer. The certificates already held are
// unaffected.
func (r *Refresher) Disable() {
	r.cmd <- refresherCmd{kind: cmdDisable}
}

// Stop permanently shuts down the refresher's goroutine. A stopped
// Refresher cannot be restarted; build a new one instead.
func (r *Refresher) Stop() {
	close(r.stopCh)
	<-r.stoppedCh
}

// Refresh runs one certificate refresh on the caller's own goroutine,
// serialized against the background schedule by guard so at most one
// refresh is ever in flight.
func (r *Refresher) Refresh(ctx context.Context) error {
	select {
	case <-r.guard:
	case <-ctx.Done():
		return ctx.Err()
	}
	defer func() { r.guard <- struct{}{} }()

	return r.doRefresh(ctx)
}

func (r *Refresher) run() {
	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case c := <-r.cmd:
			switch c.kind {
			case cmdEnable:
				if timer != nil {
					timer.Stop()
				}
				r.interval = c.interval
				timer = time.NewTimer(c.interval)
				timerCh = timer.C
				r.state = stateScheduled
			case cmdDisable:
				if timer != nil {
					timer.Stop()
					timer = nil
				}
				timerCh = nil
				r.state = stateStopped
			}
		case <-timerCh:
			r.state = stateRefreshing
			r.tick()
			timer = time.NewTimer(r.interval)
			timerCh = timer.C
			r.state = stateScheduled
		case <-r.stopCh:
			if timer != nil {
				timer.Stop()
			}
			close(r.stoppedCh)
			return
		}
	}
}

// tick runs one scheduled refresh. If a manual Refresh is already in
// flight, the tick is skipped rather than blocked on — it will simply
// run again at the next scheduled time.
func (r *Refresher) tick() {
	select {
	case <-r.guard:
	default:
		r.logger.Debug("skipping scheduled certificate refresh: a manual refresh is already running")
		return
	}
	defer func() { r.guard <- struct{}{} }()

	if err := r.doRefresh(context.Background()); err != nil {
		r.logger.Warn("certificate refresh failed", zap.Error(err))
	}
}

// doRefresh fetches, decrypts, and installs the current platform
// certificate set. Verification of the /v3/certificates response
// itself is skipped only while the store holds no certificates yet
// (the very first bootstrap run); every subsequent refresh verifies
// normally.
func (r *Refresher) doRefresh(ctx context.Context) error {
	cfg := r.client.store.Load()
	verify := cfg.PlatformCerts.Len() > 0

	resp, err := r.client.GetCertificates(ctx, verify)
	if err != nil {
		return err
	}

	pairs, err := resp.PublicKeys()
	if err != nil {
		return err
	}

	return r.client.store.UpdateCertificates(pairs)
}
