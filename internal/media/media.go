// Package media is the boundary to the platform's capture hardware. The
// core only ever sees the Provider and Stream interfaces; the host supplies
// the real microphone, this package supplies a simulated one.
package media

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/teris-io/shortid"
)

var (
	ErrPermissionDenied  = errors.New("microphone permission denied")
	ErrDeviceUnavailable = errors.New("no capture device available")
	ErrStreamClosed      = errors.New("stream already stopped")
)

type Provider interface {
	// AcquireMicrophoneStream requests capture hardware from the platform.
	// The request is asynchronous and may fail or be delayed; ctx cancels
	// a pending acquisition.
	AcquireMicrophoneStream(ctx context.Context) (Stream, error)
}

type Stream interface {
	// Stop finalizes the recording and returns a playable clip locator.
	// The underlying hardware handle is released regardless of outcome.
	Stop() (types.MediaRef, error)
}

// SimProvider hands out simulated streams whose clips are named locators
// rather than real audio. Used by the demo binary in place of a browser's
// getUserMedia.
type SimProvider struct {
	// Denied makes every acquisition fail with ErrPermissionDenied.
	Denied bool
}

func (p *SimProvider) AcquireMicrophoneStream(ctx context.Context) (Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.Denied {
		return nil, ErrPermissionDenied
	}

	return &simStream{started: time.Now()}, nil
}

type simStream struct {
	mu      sync.Mutex
	started time.Time
	stopped bool
}

func (s *simStream) Stop() (types.MediaRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return "", ErrStreamClosed
	}
	s.stopped = true

	id, err := shortid.Generate()
	if err != nil {
		return "", fmt.Errorf("generate clip id: %w", err)
	}

	return types.MediaRef(fmt.Sprintf("clip-%s.webm", id)), nil
}
