// Package call models a voice call's lifecycle: idle, connecting, active,
// ended. The whole thing is a timer-driven simulation; no audio path
// exists. All transitions are serialized on a single loop goroutine, so a
// second session can never open while one is in flight.
package call

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/ghoxt-77/Multi-Verse-Chat/internal/stats"
	"github.com/ghoxt-77/Multi-Verse-Chat/internal/types"
	"github.com/teris-io/shortid"
	"go.uber.org/zap"
)

var (
	ErrCallInProgress = errors.New("a call session is already open")
	ErrNoPeer         = errors.New("no online peer available")
	ErrNoCall         = errors.New("no call session is open")
	ErrNotRinging     = errors.New("no incoming call to answer")
	ErrNotActive      = errors.New("call is not active")
	ErrClosed         = errors.New("simulator is closed")
)

// Config carries the simulator's timing knobs. Tests shrink the delays
// to drive the machine deterministically.
type Config struct {
	// ConnectDelay is how long an outgoing call stays in connecting
	// before auto-advancing to active.
	ConnectDelay time.Duration
	// TeardownDelay is how long an ended session stays visible before it
	// is destroyed.
	TeardownDelay time.Duration
	// TickInterval is the active-call duration resolution.
	TickInterval time.Duration
	// IncomingMin/IncomingMax bound the one-shot incoming-call timer.
	IncomingMin time.Duration
	IncomingMax time.Duration
	// Rand drives peer selection and the incoming delay. Nil means a
	// time-seeded source.
	Rand *rand.Rand
}

type cmdKind int

const (
	cmdStart cmdKind = iota
	cmdAccept
	cmdReject
	cmdHangUp
	cmdToggleMute
	cmdToggleSpeaker
)

type command struct {
	kind  cmdKind
	reply chan error
}

type Simulator struct {
	log   *zap.SugaredLogger
	stats stats.StatsProvider
	cfg   Config
	self  types.User
	// peers is a read-only snapshot of online users other than self,
	// taken at construction.
	peers []types.User
	rng   *rand.Rand

	cmdChan   chan command
	events    chan types.CallSnapshot
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once

	mu  sync.Mutex
	cur *types.CallSnapshot
}

// NewSimulator starts the simulator loop. peers must already exclude the
// acting user; pass the directory's online snapshot.
func NewSimulator(self types.User, peers []types.User, cfg Config, sp stats.StatsProvider, log *zap.SugaredLogger) *Simulator {
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.ConnectDelay <= 0 {
		cfg.ConnectDelay = 2 * time.Second
	}
	if cfg.TeardownDelay <= 0 {
		cfg.TeardownDelay = time.Second
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.IncomingMin <= 0 {
		cfg.IncomingMin = 15 * time.Second
	}
	if cfg.IncomingMax < cfg.IncomingMin {
		cfg.IncomingMax = cfg.IncomingMin
	}

	s := &Simulator{
		log:     log,
		stats:   sp,
		cfg:     cfg,
		self:    self,
		peers:   peers,
		rng:     rng,
		cmdChan: make(chan command),
		events:  make(chan types.CallSnapshot, 16),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	go s.run()
	return s
}

// Events delivers a snapshot after every transition. The channel is
// buffered; a slow consumer loses intermediate snapshots, never the loop.
func (s *Simulator) Events() <-chan types.CallSnapshot {
	return s.events
}

// Snapshot returns a copy of the open session, or an idle snapshot when
// none is open.
func (s *Simulator) Snapshot() types.CallSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return types.CallSnapshot{Status: types.CallIdle}
	}
	return *s.cur
}

// Start places an outgoing call to a random online peer.
func (s *Simulator) Start() error { return s.do(cmdStart) }

// Accept answers an incoming call while it is still connecting.
func (s *Simulator) Accept() error { return s.do(cmdAccept) }

// Reject declines an incoming call, skipping active entirely.
func (s *Simulator) Reject() error { return s.do(cmdReject) }

// HangUp ends the active call.
func (s *Simulator) HangUp() error { return s.do(cmdHangUp) }

func (s *Simulator) ToggleMute() error    { return s.do(cmdToggleMute) }
func (s *Simulator) ToggleSpeaker() error { return s.do(cmdToggleSpeaker) }

// Close cancels every timer and stops the loop. Safe to call more than
// once.
func (s *Simulator) Close() {
	s.closeOnce.Do(func() {
		close(s.stop)
	})
	<-s.done
}

func (s *Simulator) do(kind cmdKind) error {
	cmd := command{kind: kind, reply: make(chan error, 1)}
	select {
	case s.cmdChan <- cmd:
	case <-s.done:
		return ErrClosed
	}

	select {
	case err := <-cmd.reply:
		return err
	case <-s.done:
		return ErrClosed
	}
}

func stoppedTimer() *time.Timer {
	t := time.NewTimer(time.Hour)
	if !t.Stop() {
		<-t.C
	}
	return t
}

func (s *Simulator) run() {
	// one-shot incoming call, randomly delayed inside the configured
	// window
	incoming := time.NewTimer(s.incomingDelay())
	connect := stoppedTimer()
	teardown := stoppedTimer()
	tick := time.NewTicker(s.cfg.TickInterval)
	tick.Stop()

	defer func() {
		incoming.Stop()
		connect.Stop()
		teardown.Stop()
		tick.Stop()
		close(s.events)
		close(s.done)
	}()

	for {
		select {
		case cmd := <-s.cmdChan:
			cmd.reply <- s.handle(cmd.kind, connect, teardown, tick)
		case <-incoming.C:
			s.ring()
		case <-connect.C:
			s.connected(tick)
		case <-tick.C:
			s.advanceDuration()
		case <-teardown.C:
			s.destroy()
		case <-s.stop:
			return
		}
	}
}

func (s *Simulator) incomingDelay() time.Duration {
	window := s.cfg.IncomingMax - s.cfg.IncomingMin
	if window <= 0 {
		return s.cfg.IncomingMin
	}
	return s.cfg.IncomingMin + time.Duration(s.rng.Int63n(int64(window)))
}

func (s *Simulator) handle(kind cmdKind, connect, teardown *time.Timer, tick *time.Ticker) error {
	switch kind {
	case cmdStart:
		return s.startOutgoing(connect)
	case cmdAccept:
		return s.accept(tick)
	case cmdReject:
		return s.reject(teardown)
	case cmdHangUp:
		return s.hangUp(teardown, tick)
	case cmdToggleMute:
		return s.toggle(func(c *types.CallSnapshot) { c.Muted = !c.Muted })
	case cmdToggleSpeaker:
		return s.toggle(func(c *types.CallSnapshot) { c.SpeakerOff = !c.SpeakerOff })
	}
	return nil
}

func (s *Simulator) startOutgoing(connect *time.Timer) error {
	if s.cur != nil {
		return ErrCallInProgress
	}

	peer, ok := s.pickPeer()
	if !ok {
		return ErrNoPeer
	}

	id, err := shortid.Generate()
	if err != nil {
		return err
	}

	s.setSession(&types.CallSnapshot{
		Id:        id,
		Caller:    s.self,
		Peer:      peer,
		Direction: types.Outgoing,
		Status:    types.CallConnecting,
	})
	connect.Reset(s.cfg.ConnectDelay)
	s.stats.Incr(stats.CallsStarted)
	s.log.Infof("calling %q", peer.Name)

	return nil
}

// ring fires the one-shot incoming call. Suppressed while a session is
// already open.
func (s *Simulator) ring() {
	if s.cur != nil {
		s.log.Debug("incoming call suppressed, session already open")
		return
	}

	peer, ok := s.pickPeer()
	if !ok {
		return
	}

	id, err := shortid.Generate()
	if err != nil {
		s.log.Warnf("generate session id: %v", err)
		return
	}

	s.setSession(&types.CallSnapshot{
		Id:        id,
		Caller:    peer,
		Peer:      s.self,
		Direction: types.Incoming,
		Status:    types.CallConnecting,
	})
	s.stats.Incr(stats.CallsStarted)
	s.log.Infof("incoming call from %q", peer.Name)
}

func (s *Simulator) connected(tick *time.Ticker) {
	// stale timer fire after the session changed underneath it
	if s.cur == nil || s.cur.Status != types.CallConnecting || s.cur.Direction != types.Outgoing {
		return
	}

	s.update(func(c *types.CallSnapshot) { c.Status = types.CallActive })
	tick.Reset(s.cfg.TickInterval)
}

func (s *Simulator) accept(tick *time.Ticker) error {
	if s.cur == nil || s.cur.Status != types.CallConnecting || s.cur.Direction != types.Incoming {
		return ErrNotRinging
	}

	s.update(func(c *types.CallSnapshot) { c.Status = types.CallActive })
	tick.Reset(s.cfg.TickInterval)
	return nil
}

func (s *Simulator) reject(teardown *time.Timer) error {
	if s.cur == nil || s.cur.Status != types.CallConnecting || s.cur.Direction != types.Incoming {
		return ErrNotRinging
	}

	s.update(func(c *types.CallSnapshot) { c.Status = types.CallEnded })
	teardown.Reset(s.cfg.TeardownDelay)
	s.stats.Incr(stats.CallsCompleted)
	return nil
}

func (s *Simulator) hangUp(teardown *time.Timer, tick *time.Ticker) error {
	if s.cur == nil {
		return ErrNoCall
	}
	if s.cur.Status != types.CallActive {
		return ErrNotActive
	}

	tick.Stop()
	s.update(func(c *types.CallSnapshot) { c.Status = types.CallEnded })
	teardown.Reset(s.cfg.TeardownDelay)
	s.stats.Incr(stats.CallsCompleted)
	return nil
}

func (s *Simulator) advanceDuration() {
	if s.cur == nil || s.cur.Status != types.CallActive {
		return
	}
	s.update(func(c *types.CallSnapshot) { c.Duration++ })
}

func (s *Simulator) destroy() {
	if s.cur == nil || s.cur.Status != types.CallEnded {
		return
	}

	s.log.Infof("call %s torn down", s.cur.Id)
	s.mu.Lock()
	s.cur = nil
	s.mu.Unlock()
	s.publish(types.CallSnapshot{Status: types.CallIdle})
}

func (s *Simulator) toggle(fn func(*types.CallSnapshot)) error {
	if s.cur == nil {
		return ErrNoCall
	}
	if s.cur.Status != types.CallActive {
		return ErrNotActive
	}

	s.update(fn)
	return nil
}

func (s *Simulator) pickPeer() (types.User, bool) {
	if len(s.peers) == 0 {
		return types.User{}, false
	}
	return s.peers[s.rng.Intn(len(s.peers))], true
}

func (s *Simulator) setSession(c *types.CallSnapshot) {
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
	s.publish(*c)
}

func (s *Simulator) update(fn func(*types.CallSnapshot)) {
	s.mu.Lock()
	fn(s.cur)
	snap := *s.cur
	s.mu.Unlock()
	s.publish(snap)
}

func (s *Simulator) publish(snap types.CallSnapshot) {
	select {
	case s.events <- snap:
	default:
		s.log.Debug("event channel full, dropping call snapshot")
	}
}
