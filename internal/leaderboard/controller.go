// Package leaderboard keeps the local working copy of the ranked trader list
// in step with the server: loading, searching, paging, staging reorders and
// routing create/update/delete/reorder calls through a Gateway.
package leaderboard

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aurumfx/lbadmin/internal/model"
	"github.com/aurumfx/lbadmin/internal/rank"
)

// DefaultPageSize is used when Options.PageSize is not positive.
const DefaultPageSize = 5

var (
	// ErrBusy is returned when a load or save is already in flight.
	ErrBusy = errors.New("another operation is in progress")

	// ErrNotDirty is returned by CommitReorder when the order is unchanged.
	ErrNotDirty = errors.New("order has not changed")

	// ErrClosed is returned once the controller has been closed, including
	// for operations whose results arrived after Close.
	ErrClosed = errors.New("controller closed")
)

// Gateway is the remote trader collection.
type Gateway interface {
	List(ctx context.Context) ([]model.Trader, error)
	Create(ctx context.Context, d model.Draft) (model.Trader, error)
	Update(ctx context.Context, id model.TraderID, d model.Draft) (model.Trader, error)
	Delete(ctx context.Context, id model.TraderID) error
	Reorder(ctx context.Context, orders []model.RankAssignment) error
}

// SessionRecorder is told when the server rejects the session.
type SessionRecorder interface {
	RecordLogout() error
}

// CountryResolver turns a country code into searchable text.
type CountryResolver interface {
	DisplayName(code string) string
}

// Phase is the controller's sync state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseReady
	PhaseSaving
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseLoading:
		return "loading"
	case PhaseReady:
		return "ready"
	case PhaseSaving:
		return "saving"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// Busy reports whether a network call is in flight.
func (p Phase) Busy() bool {
	return p == PhaseLoading || p == PhaseSaving
}

// Options configures a Controller. Zero values are usable.
type Options struct {
	PageSize  int
	Session   SessionRecorder
	Countries CountryResolver
	Logger    zerolog.Logger
}

// Controller owns the working list. It is safe for concurrent use; network
// calls run without the lock held and their results are applied afterwards.
type Controller struct {
	gw        Gateway
	session   SessionRecorder
	countries CountryResolver
	log       zerolog.Logger
	pageSize  int

	mu       sync.Mutex
	phase    Phase
	lastErr  error
	working  []model.Trader
	baseline []model.TraderID
	term     string
	page     int
	drag     *rank.Session[model.Trader, model.TraderID]
	cancelOp context.CancelFunc
	closed   bool
}

func traderKey(t model.Trader) model.TraderID {
	return t.ID
}

// NewController creates an idle controller with an empty list.
func NewController(gw Gateway, opts Options) *Controller {
	size := opts.PageSize
	if size <= 0 {
		size = DefaultPageSize
	}
	return &Controller{
		gw:        gw,
		session:   opts.Session,
		countries: opts.Countries,
		log:       opts.Logger,
		pageSize:  size,
		page:      1,
		drag:      rank.NewSession(traderKey),
	}
}

// Phase returns the current phase.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// LastError returns the failure that put the controller in PhaseError.
func (c *Controller) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Traders returns a copy of the unfiltered working list.
func (c *Controller) Traders() []model.Trader {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.working)
}

// WorkingOrder returns the ids of the working list in order.
func (c *Controller) WorkingOrder() []model.TraderID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return model.IDs(c.working)
}

// BaselineOrder returns the last order known to match the server.
func (c *Controller) BaselineOrder() []model.TraderID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.baseline)
}

// Find returns the working copy of trader id.
func (c *Controller) Find(id model.TraderID) (model.Trader, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := rank.IndexOf(c.working, traderKey, id); i >= 0 {
		return c.working[i], true
	}
	return model.Trader{}, false
}

// IsDirty reports whether the working order differs from the baseline.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isDirtyLocked()
}

func (c *Controller) isDirtyLocked() bool {
	return !slices.Equal(model.IDs(c.working), c.baseline)
}

// Reload replaces the working list and baseline with the server's list.
// On failure the previous list is kept and the controller enters PhaseError.
func (c *Controller) Reload(ctx context.Context) error {
	c.mu.Lock()
	opCtx, err := c.beginLocked(ctx, PhaseLoading)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	return c.load(opCtx)
}

// RequestCreate creates a trader and reloads. The returned error is the
// create failure only; a failed follow-up reload shows up as PhaseError.
func (c *Controller) RequestCreate(ctx context.Context, d model.Draft) (model.Trader, error) {
	if err := d.Validate(); err != nil {
		return model.Trader{}, err
	}

	c.mu.Lock()
	opCtx, err := c.beginLocked(ctx, PhaseSaving)
	c.mu.Unlock()
	if err != nil {
		return model.Trader{}, err
	}

	created, err := c.gw.Create(opCtx, d)
	if err := c.afterMutation("create", err); err != nil {
		return model.Trader{}, err
	}
	c.log.Info().Str("id", created.ID.String()).Str("name", created.Name).Msg("trader created")

	_ = c.load(opCtx)
	return created, nil
}

// RequestUpdate updates trader id and reloads.
func (c *Controller) RequestUpdate(ctx context.Context, id model.TraderID, d model.Draft) (model.Trader, error) {
	if id == "" {
		return model.Trader{}, &model.ValidationError{Field: "id", Reason: "is required"}
	}
	if err := d.Validate(); err != nil {
		return model.Trader{}, err
	}

	c.mu.Lock()
	opCtx, err := c.beginLocked(ctx, PhaseSaving)
	c.mu.Unlock()
	if err != nil {
		return model.Trader{}, err
	}

	updated, err := c.gw.Update(opCtx, id, d)
	if err := c.afterMutation("update", err); err != nil {
		return model.Trader{}, err
	}
	c.log.Info().Str("id", id.String()).Msg("trader updated")

	_ = c.load(opCtx)
	return updated, nil
}

// RequestDelete deletes trader id and reloads. Callers confirm with the
// user first.
func (c *Controller) RequestDelete(ctx context.Context, id model.TraderID) error {
	if id == "" {
		return &model.ValidationError{Field: "id", Reason: "is required"}
	}

	c.mu.Lock()
	opCtx, err := c.beginLocked(ctx, PhaseSaving)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	err = c.gw.Delete(opCtx, id)
	if err := c.afterMutation("delete", err); err != nil {
		return err
	}
	c.log.Info().Str("id", id.String()).Msg("trader deleted")

	_ = c.load(opCtx)
	return nil
}

// CommitReorder sends the working order as contiguous 1-based ranks. On
// success the baseline becomes that order and the list is reloaded; on
// failure the working order is left as it was so the save can be retried.
func (c *Controller) CommitReorder(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.phase.Busy() {
		c.mu.Unlock()
		return ErrBusy
	}
	if !c.isDirtyLocked() {
		c.mu.Unlock()
		return ErrNotDirty
	}
	committed := model.IDs(c.working)
	opCtx, err := c.beginLocked(ctx, PhaseSaving)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	err = c.gw.Reorder(opCtx, Assignments(committed))

	c.mu.Lock()
	if c.closed {
		c.finishLocked()
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.failLocked("reorder", err)
		c.finishLocked()
		c.mu.Unlock()
		return err
	}
	c.baseline = committed
	c.phase = PhaseLoading
	c.mu.Unlock()

	c.log.Info().Int("count", len(committed)).Msg("rank order saved")

	_ = c.load(opCtx)
	return nil
}

// Assignments numbers ids 1..N in order.
func Assignments(ids []model.TraderID) []model.RankAssignment {
	out := make([]model.RankAssignment, len(ids))
	for i, id := range ids {
		out[i] = model.RankAssignment{ID: id, Rank: i + 1}
	}
	return out
}

// StageReorder moves trader id to targetIndex in the working list without
// contacting the server. Unknown ids are ignored. It reports whether the
// list was changed. A drag in progress is dropped first, since its preview
// was built from the list this call replaces.
func (c *Controller) StageReorder(id model.TraderID, targetIndex int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false, ErrClosed
	}
	if c.phase.Busy() {
		return false, ErrBusy
	}
	c.drag.Cancel()

	moved, ok := rank.Move(c.working, traderKey, id, targetIndex)
	if !ok {
		return false, nil
	}
	changed := !rank.Equal(moved, c.working, traderKey)
	c.working = moved
	return changed, nil
}

// Close abandons any in-flight call. Results that arrive afterwards are
// discarded and further operations return ErrClosed.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.drag.Cancel()
	if c.cancelOp != nil {
		c.cancelOp()
	}
}

// beginLocked enters a busy phase. Any drag in progress is dropped since the
// list it was started on is about to be replaced or saved.
func (c *Controller) beginLocked(ctx context.Context, phase Phase) (context.Context, error) {
	if c.closed {
		return nil, ErrClosed
	}
	if c.phase.Busy() {
		return nil, ErrBusy
	}

	c.drag.Cancel()
	c.phase = phase
	opCtx, cancel := context.WithCancel(ctx)
	c.cancelOp = cancel

	c.log.Debug().Stringer("phase", phase).Msg("phase change")
	return opCtx, nil
}

func (c *Controller) finishLocked() {
	if c.cancelOp != nil {
		c.cancelOp()
		c.cancelOp = nil
	}
}

// load fetches the list. The caller has already entered PhaseLoading.
func (c *Controller) load(ctx context.Context) error {
	traders, err := c.gw.List(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.finishLocked()

	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.failLocked("reload", err)
		return err
	}

	c.working = slices.Clone(traders)
	c.baseline = model.IDs(traders)
	c.phase = PhaseReady
	c.lastErr = nil
	c.page = clampPage(c.page, c.totalPagesLocked())

	c.log.Debug().Int("count", len(traders)).Msg("traders loaded")
	return nil
}

// afterMutation applies the outcome of a create, update or delete. On
// success the list is cleared and the controller moves to PhaseLoading for
// the reload that follows.
func (c *Controller) afterMutation(op string, err error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.finishLocked()
		return ErrClosed
	}
	if err != nil {
		c.failLocked(op, err)
		c.finishLocked()
		return err
	}

	c.working = nil
	c.baseline = nil
	c.phase = PhaseLoading
	return nil
}

func (c *Controller) failLocked(op string, err error) {
	c.phase = PhaseError
	c.lastErr = err

	if model.IsAuthorization(err) {
		c.drag.Cancel()
		c.log.Warn().Str("op", op).Err(err).Msg("session rejected")
		if c.session != nil {
			if lerr := c.session.RecordLogout(); lerr != nil {
				c.log.Warn().Err(lerr).Msg("logout after rejected session failed")
			}
		}
		return
	}

	c.log.Error().Str("op", op).Err(err).Msg("operation failed")
}
