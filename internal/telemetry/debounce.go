package telemetry

import (
	"sync"
	"time"
)

type debounceKey struct {
	user string
	game string
}

type pendingPrefs struct {
	timer *time.Timer
	req   preferencesRequest
}

// debouncer coalesces preference writes per user and game.
type debouncer struct {
	wait time.Duration
	send func(preferencesRequest)

	mu      sync.Mutex
	pending map[debounceKey]*pendingPrefs
	wg      sync.WaitGroup
}

func newDebouncer(wait time.Duration, send func(preferencesRequest)) *debouncer {
	return &debouncer{
		wait:    wait,
		send:    send,
		pending: map[debounceKey]*pendingPrefs{},
	}
}

func (d *debouncer) schedule(req preferencesRequest) {
	key := debounceKey{user: req.UserID, game: string(req.Game)}

	d.mu.Lock()
	defer d.mu.Unlock()
	if p, ok := d.pending[key]; ok {
		p.req = req
		if p.timer.Stop() {
			p.timer.Reset(d.wait)
			return
		}
		// The timer already fired; its callback sends whatever is stored.
		return
	}
	p := &pendingPrefs{req: req}
	d.wg.Add(1)
	p.timer = time.AfterFunc(d.wait, func() {
		defer d.wg.Done()
		d.fire(key, p)
	})
	d.pending[key] = p
}

func (d *debouncer) fire(key debounceKey, p *pendingPrefs) {
	d.mu.Lock()
	if d.pending[key] != p {
		d.mu.Unlock()
		return
	}
	delete(d.pending, key)
	req := p.req
	d.mu.Unlock()
	d.send(req)
}

// flush sends every pending write now and waits for in-flight sends.
func (d *debouncer) flush() {
	d.mu.Lock()
	var due []preferencesRequest
	for key, p := range d.pending {
		if p.timer.Stop() {
			d.wg.Done()
			due = append(due, p.req)
			delete(d.pending, key)
		}
	}
	d.mu.Unlock()

	for _, req := range due {
		d.send(req)
	}
	d.wg.Wait()
}
