package printing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/nunchaku-india/voucher-desk/internal/domain/voucher"
	"go.uber.org/zap"
)

var (
	// ErrNothingSelected is returned when printing is requested with no voucher.
	ErrNothingSelected = errors.New("no voucher selected for printing")

	// ErrPrintInProgress is returned when a print is requested while another runs.
	ErrPrintInProgress = errors.New("a print is already in progress")

	// ErrContentMissing is returned when the ready signal fired but no page exists.
	ErrContentMissing = errors.New("print content was not rendered")
)

// Renderer produces the printable page for one voucher.
type Renderer interface {
	Render(v *voucher.Voucher) (string, error)
}

// Spooler delivers a staged page to its physical destination.
type Spooler interface {
	Spool(path, name string) (string, error)
}

// Pipeline coordinates the two-phase print handshake: a request suspends
// until ContentReady signals that the page has committed, and only then is
// the page spooled. Each print carries its own generation; a render left
// behind by a cancelled print can neither commit its page nor release the
// gate of the print that replaced it. This is what keeps a stale or blank
// page from reaching the printer.
type Pipeline struct {
	renderer Renderer
	spooler  Spooler
	logger   *zap.Logger

	mu        sync.Mutex
	printing  bool
	gen       uint64
	ready     chan struct{}
	pagePath  string
	renderErr error
}

// NewPipeline creates a print pipeline.
func NewPipeline(renderer Renderer, spooler Spooler, logger *zap.Logger) *Pipeline {
	return &Pipeline{renderer: renderer, spooler: spooler, logger: logger}
}

// Printing reports whether a print is currently in flight.
func (p *Pipeline) Printing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.printing
}

// Print runs the full flow for one voucher: mark printing, render in the
// background, suspend until the content-ready signal (or ctx cancellation),
// then spool the page. It returns the spooled path. State is cleared on
// every path so a failed print never wedges the pipeline.
func (p *Pipeline) Print(ctx context.Context, v *voucher.Voucher) (string, error) {
	if v == nil {
		return "", ErrNothingSelected
	}

	p.mu.Lock()
	if p.printing {
		p.mu.Unlock()
		return "", ErrPrintInProgress
	}
	p.printing = true
	p.gen++
	gen := p.gen
	ready := make(chan struct{})
	p.ready = ready
	p.pagePath = ""
	p.renderErr = nil
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.printing = false
		p.ready = nil
		p.mu.Unlock()
	}()

	go func() {
		path, err := p.renderer.Render(v)
		p.mu.Lock()
		if p.gen != gen || !p.printing {
			// This print was abandoned; the result belongs to nobody.
			p.mu.Unlock()
			if path != "" {
				os.Remove(path)
			}
			return
		}
		p.pagePath = path
		p.renderErr = err
		gate := p.ready
		p.ready = nil
		p.mu.Unlock()
		if gate != nil {
			close(gate)
		}
	}()

	select {
	case <-ready:
	case <-ctx.Done():
		return "", ctx.Err()
	}

	p.mu.Lock()
	path, renderErr := p.pagePath, p.renderErr
	p.mu.Unlock()

	if renderErr != nil {
		return "", renderErr
	}
	if path == "" {
		return "", ErrContentMissing
	}

	final, err := p.spooler.Spool(path, fmt.Sprintf("Voucher-%s.xlsx", v.ID))
	if err != nil {
		return "", err
	}

	p.logger.Info("voucher printed",
		zap.String("id", v.ID),
		zap.String("path", final))
	return final, nil
}

// ContentReady signals that the printable content has committed. Safe to call
// more than once; calls outside an active print are ignored.
func (p *Pipeline) ContentReady() {
	p.mu.Lock()
	gate := p.ready
	p.ready = nil
	p.mu.Unlock()

	if gate != nil {
		close(gate)
	}
}
