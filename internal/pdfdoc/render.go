package pdfdoc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"pdfsnip/internal/transform"
)

// Render rasterizes the page at the given scale. The engine call itself
// cannot be interrupted, but a cancelled context makes Render return
// immediately with the context's error; the discarded raster is dropped
// when the engine finishes. Cancellation is an expected outcome, not a
// failure; classify with IsCancelled before reporting anything.
func (p *Page) Render(ctx context.Context, scale float64) (*image.RGBA, error) {
	if scale <= 0 {
		return nil, transform.ErrInvalidScale
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type result struct {
		img *image.RGBA
		err error
	}
	ch := make(chan result, 1)
	go func() {
		p.doc.mu.Lock()
		defer p.doc.mu.Unlock()
		if p.doc.closed {
			ch <- result{nil, ErrDocumentClosed}
			return
		}
		img, err := p.doc.fz.ImageDPI(p.number-1, baseDPI*scale)
		if err != nil {
			err = fmt.Errorf("render page %d at scale %.2f: %w", p.number, scale, err)
		}
		ch <- result{img, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-ch:
		return r.img, r.err
	}
}

// IsCancelled reports whether a render error means the task was cancelled
// rather than genuinely failing.
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled)
}

// RenderFunc produces a raster, honoring cancellation through the context.
type RenderFunc func(ctx context.Context) (*image.RGBA, error)

// RenderTask is an in-flight render. Wait blocks until the raster is ready
// or the task has been cancelled.
type RenderTask struct {
	cancel context.CancelFunc
	done   chan struct{}
	img    *image.RGBA
	err    error
}

// StartRender launches fn on its own goroutine and returns the task handle.
func StartRender(fn RenderFunc) *RenderTask {
	ctx, cancel := context.WithCancel(context.Background())
	t := &RenderTask{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		t.img, t.err = fn(ctx)
	}()
	return t
}

// Cancel aborts the task. The task's Wait returns context.Canceled.
func (t *RenderTask) Cancel() {
	t.cancel()
}

// Wait blocks until the task finishes and returns its outcome.
func (t *RenderTask) Wait() (*image.RGBA, error) {
	<-t.done
	return t.img, t.err
}

// Renderer keeps at most one render in flight. Starting a render for a new
// page or scale cancels the previous one first, so stale rasters never
// overtake fresh ones.
type Renderer struct {
	mu      sync.Mutex
	current *RenderTask
}

// Start cancels any in-flight task and launches fn as the new one.
func (r *Renderer) Start(fn RenderFunc) *RenderTask {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Cancel()
	}
	r.current = StartRender(fn)
	return r.current
}

// CancelCurrent aborts the in-flight task, if any.
func (r *Renderer) CancelCurrent() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		r.current.Cancel()
		r.current = nil
	}
}
