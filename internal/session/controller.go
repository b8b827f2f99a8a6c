// Package session owns the authoritative state of one Wappo game.
// A Controller serializes every command through a FIFO queue drained by a
// single worker goroutine, resolves whole rounds (player move, enemy
// pursuit, trap cleanup) one at a time and publishes a snapshot for every
// sub-step so a presenter can animate the chase.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/wappo/internal/core"
	"github.com/vovakirdan/wappo/internal/games/wappo"
	"github.com/vovakirdan/wappo/internal/games/wappo/levels"
	"github.com/vovakirdan/wappo/internal/registry"
)

var (
	// ErrUnknownLevel is returned when neither the catalog nor the map
	// store has a level with the requested name.
	ErrUnknownLevel = errors.New("session: unknown level")

	// ErrStopped is returned for commands sent after Stop.
	ErrStopped = errors.New("session: controller stopped")

	// ErrNotWon is returned by NextLevel before the active level is won.
	ErrNotWon = errors.New("session: level not won yet")

	// ErrNoNextLevel is returned by NextLevel for custom maps and the
	// last catalog level.
	ErrNoNextLevel = errors.New("session: no next level")

	// ErrLevelLocked is returned by NextLevel and LoadByName when progress
	// does not reach the catalog level.
	ErrLevelLocked = errors.New("session: level locked")

	// ErrReservedName is returned by Save for names used by the catalog.
	ErrReservedName = errors.New("session: name belongs to a built-in level")
)

// Options configures a Controller.
type Options struct {
	Delays     Delays
	Store      MapStore    // Optional; nil keeps nothing
	Logger     *log.Logger // Optional; nil discards output
	BufferSize int         // Action queue and subscription buffer size
}

// Controller runs one game session.
type Controller struct {
	delays   Delays
	store    MapStore
	progress ProgressStore // nil when the store keeps no progress
	logger   *log.Logger
	bufSize  int

	mu    sync.RWMutex
	state wappo.State
	index int // Catalog position of the active level, -1 for other levels

	subsMu sync.Mutex
	subs   map[*Subscription]struct{}

	actions  chan action
	done     chan struct{}
	stopOnce sync.Once
	started  atomic.Bool
}

// New creates a controller playing levels.Default(). Call Start to run the
// worker and Bootstrap to restore the last active level.
func New(opts Options) *Controller {
	if opts.BufferSize < 1 {
		opts.BufferSize = defaultBufferSize
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	c := &Controller{
		delays:  opts.Delays,
		store:   opts.Store,
		logger:  opts.Logger,
		bufSize: opts.BufferSize,
		state:   levels.Default().MustState(),
		index:   -1,
		subs:    make(map[*Subscription]struct{}),
		actions: make(chan action, opts.BufferSize),
		done:    make(chan struct{}),
	}
	if c.store == nil {
		c.store = nopStore{}
	}
	if p, ok := c.store.(ProgressStore); ok {
		c.progress = p
	}
	return c
}

// Start runs the worker until ctx is cancelled or Stop is called.
// Calling Start more than once has no effect.
func (c *Controller) Start(ctx context.Context) {
	if !c.started.CompareAndSwap(false, true) {
		return
	}
	go c.run(ctx)
}

// Stop shuts the worker down after the action in flight and ends all
// subscriptions. Safe to call multiple times.
func (c *Controller) Stop() {
	c.stopOnce.Do(func() {
		close(c.done)

		c.subsMu.Lock()
		for sub := range c.subs {
			sub.close()
			delete(c.subs, sub)
		}
		c.subsMu.Unlock()
	})
}

// Done returns a channel that closes when the controller stops.
func (c *Controller) Done() <-chan struct{} {
	return c.done
}

func (c *Controller) run(ctx context.Context) {
	defer c.Stop()
	for {
		select {
		case a := <-c.actions:
			c.handle(ctx, a)
		case <-ctx.Done():
			return
		case <-c.done:
			return
		}
	}
}

// State returns the latest committed snapshot.
func (c *Controller) State() wappo.State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// LevelIndex returns the catalog position of the active level, or -1.
func (c *Controller) LevelIndex() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.index
}

// Subscribe registers for updates. The subscription ends on Unsubscribe or
// Stop.
func (c *Controller) Subscribe() *Subscription {
	sub := newSubscription(c.bufSize)

	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	select {
	case <-c.done:
		sub.close()
	default:
		c.subs[sub] = struct{}{}
	}
	return sub
}

// Unsubscribe ends a subscription.
func (c *Controller) Unsubscribe(sub *Subscription) {
	c.subsMu.Lock()
	delete(c.subs, sub)
	c.subsMu.Unlock()
	sub.close()
}

// Move queues a player step. Illegal moves, and moves that arrive when the
// game is over, are dropped when their turn comes.
func (c *Controller) Move(dir core.Direction) {
	_ = c.send(context.Background(), moveAction{dir: dir})
}

// Reset queues a restart of the active level.
func (c *Controller) Reset() {
	_ = c.send(context.Background(), resetAction{})
}

// LoadLevel validates l and queues it as the active level. An invalid
// level is rejected here and the session is left untouched. The level is
// not remembered for Bootstrap, since it may exist nowhere else.
func (c *Controller) LoadLevel(l wappo.Level) error {
	s, err := l.NewState()
	if err != nil {
		return err
	}
	return c.send(context.Background(), loadAction{state: s})
}

// LoadByName activates the catalog level or saved map with the given name.
// Catalog levels beyond the unlocked progress fail with ErrLevelLocked.
func (c *Controller) LoadByName(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	return c.call(ctx, loadByNameAction{name: name, reply: reply}, reply)
}

// NextLevel advances to the following catalog level once the active one is
// won and progress has unlocked it.
func (c *Controller) NextLevel(ctx context.Context) error {
	reply := make(chan error, 1)
	return c.call(ctx, nextLevelAction{reply: reply}, reply)
}

// Bootstrap queues a restore of the last active level. Any failure falls
// back to levels.Default().
func (c *Controller) Bootstrap() {
	_ = c.send(context.Background(), bootstrapAction{})
}

// Save stores l as a custom map, replacing any map with the same name.
// A blank name becomes wappo.DefaultLevelName.
func (c *Controller) Save(ctx context.Context, l wappo.Level) error {
	l = l.Normalized()
	if err := l.Validate(); err != nil {
		return err
	}
	if registry.Exists(l.Name) {
		return fmt.Errorf("%w: %q", ErrReservedName, l.Name)
	}
	reply := make(chan error, 1)
	return c.call(ctx, saveAction{level: l, reply: reply}, reply)
}

// Delete removes a saved map. The active session is not affected.
func (c *Controller) Delete(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	return c.call(ctx, deleteAction{name: name, reply: reply}, reply)
}

// ClearMaps removes every saved map.
func (c *Controller) ClearMaps(ctx context.Context) error {
	reply := make(chan error, 1)
	return c.call(ctx, clearMapsAction{reply: reply}, reply)
}

// SavedMaps lists the custom maps in the store.
func (c *Controller) SavedMaps(ctx context.Context) ([]wappo.Level, error) {
	reply := make(chan mapsResult, 1)
	if err := c.send(ctx, mapsAction{reply: reply}); err != nil {
		return nil, err
	}
	select {
	case r := <-reply:
		return r.maps, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-c.done:
		return nil, ErrStopped
	}
}

// Unlocked returns how many catalog levels are playable, counting from
// the first.
func (c *Controller) Unlocked(ctx context.Context) (int, error) {
	reply := make(chan int, 1)
	if err := c.send(ctx, unlockedAction{reply: reply}); err != nil {
		return 0, err
	}
	select {
	case n := <-reply:
		return n, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	case <-c.done:
		return 0, ErrStopped
	}
}

// Sync waits until every action queued before it has been processed.
func (c *Controller) Sync(ctx context.Context) error {
	done := make(chan struct{})
	if err := c.send(ctx, syncAction{done: done}); err != nil {
		return err
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

func (c *Controller) send(ctx context.Context, a action) error {
	select {
	case <-c.done:
		return ErrStopped
	default:
	}

	select {
	case c.actions <- a:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

func (c *Controller) call(ctx context.Context, a action, reply <-chan error) error {
	if err := c.send(ctx, a); err != nil {
		return err
	}
	select {
	case err := <-reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-c.done:
		return ErrStopped
	}
}

func (c *Controller) handle(ctx context.Context, a action) {
	switch m := a.(type) {
	case moveAction:
		c.handleMove(ctx, m.dir)
	case resetAction:
		s := c.State().Restart()
		c.commit(Update{Kind: UpdateReset, State: s, Enemy: -1, Pos: s.Player()})
	case loadAction:
		c.activate(m.state, -1)
	case loadByNameAction:
		m.reply <- c.loadByName(m.name)
	case nextLevelAction:
		m.reply <- c.nextLevel()
	case bootstrapAction:
		c.bootstrap()
	case saveAction:
		m.reply <- c.wrap("save map", c.store.SaveOrUpdate(m.level))
	case deleteAction:
		m.reply <- c.wrap("delete map", c.store.Delete(m.name))
	case clearMapsAction:
		m.reply <- c.wrap("clear maps", c.store.ClearAll())
	case mapsAction:
		maps, err := c.store.LoadAll()
		m.reply <- mapsResult{maps: maps, err: c.wrap("load maps", err)}
	case unlockedAction:
		m.reply <- c.unlocked()
	case syncAction:
		close(m.done)
	}
}

func (c *Controller) wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	c.logger.Warn("store failure", "op", op, "err", err)
	return fmt.Errorf("session: cannot %s: %w", op, err)
}

// handleMove resolves one whole round. Delays are the only suspension
// points; a cancelled context skips them but the round still completes.
func (c *Controller) handleMove(ctx context.Context, dir core.Direction) {
	s := c.State()
	if s.IsTerminal() || s.Turn() != wappo.TurnPlayer {
		c.logger.Debug("move dropped", "dir", dir, "turn", s.Turn(), "result", s.Result())
		return
	}

	next := wappo.ApplyPlayerMove(s, dir)
	if next.Equal(s) {
		c.logger.Debug("move rejected", "dir", dir, "player", s.Player())
		return
	}
	c.commit(Update{Kind: UpdatePlayerMoved, State: next, Enemy: -1, Pos: next.Player()})

	if next.IsTerminal() {
		if wappo.PlayerOnTrap(next) {
			c.pause(ctx, c.delays.PlayerTrapReveal)
			next = wappo.ClearTrap(next, next.Player())
			c.commit(Update{Kind: UpdateTrapCleared, State: next, Enemy: -1, Pos: next.Player()})
		}
		c.finish(next)
		return
	}

	last := next
	for step := range wappo.EnemyTurn(next) {
		var kind UpdateKind
		switch step.Kind {
		case wappo.StepEnemyMoved:
			c.pause(ctx, c.delays.EnemyStep)
			kind = UpdateEnemyMoved
		case wappo.StepTrapCleared:
			c.pause(ctx, c.delays.EnemyTrapReveal)
			kind = UpdateTrapCleared
		case wappo.StepTurnEnded:
			kind = UpdateTurnEnded
		}
		c.commit(Update{Kind: kind, State: step.State, Enemy: step.Enemy, Pos: step.Pos})
		last = step.State
	}

	if last.IsTerminal() {
		c.finish(last)
	}
}

func (c *Controller) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-c.done:
	}
}

// commit replaces the snapshot and publishes it.
func (c *Controller) commit(u Update) {
	c.mu.Lock()
	c.state = u.State
	c.mu.Unlock()
	c.publish(u)
}

func (c *Controller) publish(u Update) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()
	for sub := range c.subs {
		sub.send(u)
	}
}

// activate makes s the session state.
func (c *Controller) activate(s wappo.State, index int) {
	c.mu.Lock()
	c.state = s
	c.index = index
	c.mu.Unlock()

	c.publish(Update{Kind: UpdateLoaded, State: s, Enemy: -1, Pos: s.Player()})
	c.logger.Debug("level loaded", "name", s.Name(), "index", index)
}

// remember stores name as the level Bootstrap restores. Only names that
// loadByName can resolve are remembered.
func (c *Controller) remember(name string) {
	if err := c.store.SaveLastActiveName(name); err != nil {
		c.logger.Warn("cannot save last active level", "name", name, "err", err)
	}
}

func (c *Controller) loadByName(name string) error {
	if i := registry.IndexOf(name); i >= 0 {
		if i >= c.unlocked() {
			return fmt.Errorf("%w: %q", ErrLevelLocked, name)
		}
		l, _ := registry.At(i)
		c.activate(l.MustState(), i)
		c.remember(name)
		return nil
	}

	maps, err := c.store.LoadAll()
	if err != nil {
		return c.wrap("load maps", err)
	}
	for _, l := range maps {
		if l.Name != name {
			continue
		}
		s, err := l.NewState()
		if err != nil {
			return fmt.Errorf("session: map %q: %w", name, err)
		}
		c.activate(s, -1)
		c.remember(name)
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownLevel, name)
}

func (c *Controller) bootstrap() {
	name, err := c.store.LoadLastActiveName()
	if err != nil {
		c.logger.Warn("cannot load last active level", "err", err)
	}
	if name != "" {
		err := c.loadByName(name)
		if err == nil {
			return
		}
		c.logger.Warn("cannot restore last active level", "name", name, "err", err)
	}
	c.activate(levels.Default().MustState(), -1)
}

func (c *Controller) nextLevel() error {
	c.mu.RLock()
	s, idx := c.state, c.index
	c.mu.RUnlock()

	if s.Result() != wappo.ResultPlayerWon {
		return ErrNotWon
	}
	if idx < 0 || idx+1 >= registry.Count() {
		return ErrNoNextLevel
	}
	if idx+1 >= c.unlocked() {
		return ErrLevelLocked
	}

	l, _ := registry.At(idx + 1)
	c.activate(l.MustState(), idx+1)
	c.remember(l.Name)
	return nil
}

// unlocked returns the number of playable catalog levels. Without a
// progress store every level is open.
func (c *Controller) unlocked() int {
	if c.progress == nil {
		return registry.Count()
	}
	n, err := c.progress.UnlockedLevels()
	if err != nil {
		c.logger.Warn("cannot read progress", "err", err)
		return 1
	}
	return max(n, 1)
}

// finish records a terminal state and unlocks the next catalog level on a
// win.
func (c *Controller) finish(s wappo.State) {
	c.logger.Info("game over", "level", s.Name(), "result", s.Result(), "moves", s.Moves())
	if c.progress == nil {
		return
	}

	if err := c.progress.RecordResult(s.Name(), s.Result(), s.Moves()); err != nil {
		c.logger.Warn("cannot record result", "level", s.Name(), "err", err)
	}
	if s.Result() != wappo.ResultPlayerWon {
		return
	}

	idx := c.LevelIndex()
	if idx < 0 {
		return
	}
	want := min(idx+2, registry.Count())
	if want <= c.unlocked() {
		return
	}
	if err := c.progress.SetUnlockedLevels(want); err != nil {
		c.logger.Warn("cannot save progress", "unlocked", want, "err", err)
		return
	}
	if l, ok := registry.At(want - 1); ok {
		c.logger.Info("level unlocked", "name", l.Name)
	}
}
