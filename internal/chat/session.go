// Package chat implements the interactive core of the demo: the current
// category/channel selection, the message composer, and per-message
// playback flags. It constructs messages and hands them to the store; it
// owns no message data itself.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/directory"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/media"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/stats"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/store"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrAlreadyRecording = errors.New("capture already in progress")
)

type captureState int

const (
	captureIdle captureState = iota
	captureAcquiring
	captureRecording
)

// AppendListener is invoked after every append, on the goroutine that
// performed it. Implementations hand the event off to their own loop
// rather than doing further state mutation inline.
type AppendListener func(channelId string, msg types.Message)

type Session struct {
	log   *zap.SugaredLogger
	dir   *directory.Directory
	store *store.MessageStore
	media media.Provider
	stats stats.StatsProvider

	mu          sync.Mutex
	curCat      types.Category
	curCh       types.Channel
	input       string
	capture     captureState
	stopPending bool
	stream      media.Stream
	playing     map[string]bool
	onAppend    AppendListener
}

// NewSession builds a session positioned on the directory's first
// category and channel.
func NewSession(dir *directory.Directory, ms *store.MessageStore, provider media.Provider, sp stats.StatsProvider, log *zap.SugaredLogger) *Session {
	cat, ch := dir.FirstSelection()
	return &Session{
		log:     log,
		dir:     dir,
		store:   ms,
		media:   provider,
		stats:   sp,
		curCat:  cat,
		curCh:   ch,
		playing: make(map[string]bool),
	}
}

func (s *Session) SetAppendListener(fn AppendListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onAppend = fn
}

func (s *Session) User() types.User {
	return s.dir.CurrentUser()
}

func (s *Session) Directory() *directory.Directory {
	return s.dir
}

// Current returns the selected category/channel pair.
func (s *Session) Current() (types.Category, types.Channel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.curCat, s.curCh
}

// SelectChannel swaps the current selection. The pair is validated
// against the directory; a channel outside the named category is
// rejected with no state change.
func (s *Session) SelectChannel(categoryId, channelId string) error {
	cat, ch, err := s.dir.Channel(categoryId, channelId)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.curCat = cat
	s.curCh = ch

	return nil
}

// Messages returns any channel's list in append order.
func (s *Session) Messages(channelId string) []types.Message {
	return s.store.Messages(channelId)
}

// ActiveMessages returns the selected channel's list in append order.
func (s *Session) ActiveMessages() []types.Message {
	s.mu.Lock()
	ch := s.curCh
	s.mu.Unlock()

	return s.store.Messages(ch.Id)
}

func (s *Session) Input() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.input
}

func (s *Session) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// Submit sends the pending input buffer.
func (s *Session) Submit() (types.Message, bool) {
	s.mu.Lock()
	raw := s.input
	s.mu.Unlock()

	return s.SubmitText(raw)
}

// SubmitText trims the input as an emptiness guard; blank submissions are
// a silent no-op. A non-empty submission produces exactly one text
// message stamped with the acting user's id and the current time,
// appended to the selected channel. The input buffer is cleared on
// success.
func (s *Session) SubmitText(raw string) (types.Message, bool) {
	if strings.TrimSpace(raw) == "" {
		return types.Message{}, false
	}

	msg := s.newMessage(types.KindText, raw, "")

	s.mu.Lock()
	ch := s.curCh
	s.input = ""
	s.mu.Unlock()

	s.append(ch.Id, msg)
	return msg, true
}

// InsertEmoji appends a plain glyph to the pending input buffer. A custom
// asset bypasses the buffer and is sent immediately as a placeholder text
// message, trading buffering for instant feedback.
func (s *Session) InsertEmoji(e types.Emoji) (types.Message, bool) {
	if !e.IsAsset() {
		s.mu.Lock()
		s.input += e.Glyph
		s.mu.Unlock()
		return types.Message{}, false
	}

	msg := s.newMessage(types.KindText, ":"+e.Asset.Alt+":", "")

	s.mu.Lock()
	ch := s.curCh
	s.mu.Unlock()

	s.append(ch.Id, msg)
	return msg, true
}

// StartCapture requests a microphone stream from the platform and enters
// the recording state. Acquisition failure is logged and returned; no
// message is produced and the composer stays idle. A stop issued while
// the permission prompt is still pending is honored when acquisition
// returns: the stream is released unrecorded and the composer stays
// idle.
func (s *Session) StartCapture(ctx context.Context) error {
	s.mu.Lock()
	if s.capture != captureIdle {
		s.mu.Unlock()
		return ErrAlreadyRecording
	}
	s.capture = captureAcquiring
	s.mu.Unlock()

	stream, err := s.media.AcquireMicrophoneStream(ctx)

	s.mu.Lock()
	if err != nil {
		s.capture = captureIdle
		s.stopPending = false
		s.mu.Unlock()
		s.log.Warnf("microphone acquisition failed: %v", err)
		return err
	}

	if s.stopPending {
		s.capture = captureIdle
		s.stopPending = false
		s.mu.Unlock()
		if _, err := stream.Stop(); err != nil {
			s.log.Warnf("releasing discarded stream failed: %v", err)
		}
		return nil
	}

	s.capture = captureRecording
	s.stream = stream
	s.mu.Unlock()
	return nil
}

// StopCapture finalizes the clip and appends an audio message carrying
// its media ref. The hardware stream is released regardless of outcome.
// Calling it while idle is a no-op; calling it while acquisition is
// still in flight marks the capture for discard instead.
func (s *Session) StopCapture() (types.Message, error) {
	s.mu.Lock()
	if s.capture == captureAcquiring {
		s.stopPending = true
		s.mu.Unlock()
		return types.Message{}, nil
	}
	if s.capture != captureRecording {
		s.mu.Unlock()
		return types.Message{}, nil
	}
	stream := s.stream
	s.capture = captureIdle
	s.stream = nil
	ch := s.curCh
	s.mu.Unlock()

	ref, err := stream.Stop()
	if err != nil {
		s.log.Warnf("finalizing capture failed: %v", err)
		return types.Message{}, err
	}

	msg := s.newMessage(types.KindAudio, "", ref)
	s.append(ch.Id, msg)
	s.stats.Incr(stats.AudioClips)

	return msg, nil
}

func (s *Session) Recording() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.capture == captureRecording
}

// Playback flags. The host owns the audio element; the core only tracks
// a playing boolean per message and reacts to the host's end-of-playback
// notification.

func (s *Session) StartPlayback(msgId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing[msgId] = true
}

func (s *Session) PausePlayback(msgId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing[msgId] = false
}

func (s *Session) PlaybackEnded(msgId string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.playing, msgId)
}

func (s *Session) Playing(msgId string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing[msgId]
}

func (s *Session) newMessage(kind types.MessageKind, body string, ref types.MediaRef) types.Message {
	return types.Message{
		Id:        uuid.NewString(),
		UserId:    s.dir.CurrentUser().Id,
		Timestamp: Now(),
		Kind:      kind,
		Body:      body,
		Media:     ref,
	}
}

func (s *Session) append(channelId string, msg types.Message) {
	s.store.Append(channelId, msg)
	s.stats.Incr(stats.MessagesSent)

	s.mu.Lock()
	fn := s.onAppend
	s.mu.Unlock()
	if fn != nil {
		fn(channelId, msg)
	}
}

func Now() time.Time {
	return time.Now().UTC().Round(time.Millisecond)
}
