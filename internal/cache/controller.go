package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todoctl/internal/service"
)

// TempPrefix marks IDs synthesized locally for todos the server has not
// acknowledged yet.
const TempPrefix = "tmp-"

// ErrStale is returned by Refresh when its result was discarded because a
// mutation began while the list call was in flight.
var ErrStale = errors.New("list result superseded by a newer mutation")

var errSettled = errors.New("mutation already settled")

// Policy selects how a committed mutation is reconciled with the server.
type Policy string

const (
	// PolicyRefetch replaces the cache with a fresh list after a commit.
	PolicyRefetch Policy = "refetch"

	// PolicyEcho folds the server's returned todo into the cache.
	PolicyEcho Policy = "echo"
)

// ParsePolicy parses a reconciliation policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyRefetch, PolicyEcho:
		return p, nil
	case "":
		return PolicyRefetch, nil
	default:
		return "", fmt.Errorf("unknown reconcile policy: %s", s)
	}
}

// IDSource generates temporary IDs.
type IDSource func() string

// NewTempID returns a random temporary ID.
func NewTempID() string {
	return TempPrefix + uuid.NewString()
}

// IsTemp reports whether id was synthesized locally.
func IsTemp(id string) bool {
	return strings.HasPrefix(id, TempPrefix)
}

// Option configures a Controller.
type Option func(*Controller)

// WithPolicy sets the reconciliation policy. The default is PolicyRefetch.
func WithPolicy(p Policy) Option {
	return func(c *Controller) {
		c.policy = p
	}
}

// WithLogger sets the logger used to report failed remote calls.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) {
		c.logger = l
	}
}

// WithIDSource replaces the temporary ID generator.
func WithIDSource(ids IDSource) Option {
	return func(c *Controller) {
		c.ids = ids
	}
}

// WithTracer sets the tracer used for mutation spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Controller) {
		c.tracer = t
	}
}

// Controller applies optimistic mutations to a Cache and settles them
// against a service.
type Controller struct {
	cache  *Cache
	svc    service.Service
	policy Policy
	logger *log.Logger
	ids    IDSource
	tracer trace.Tracer

	mu       sync.Mutex
	nextLoad int
	inflight map[int]context.CancelFunc
}

// NewController creates a controller over cache backed by svc.
func NewController(cache *Cache, svc service.Service, opts ...Option) *Controller {
	c := &Controller{
		cache:    cache,
		svc:      svc,
		policy:   PolicyRefetch,
		logger:   log.New(io.Discard),
		ids:      NewTempID,
		tracer:   otel.Tracer("todoctl/internal/cache"),
		inflight: make(map[int]context.CancelFunc),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the controlled cache.
func (c *Controller) Cache() *Cache {
	return c.cache
}

// Refresh replaces the cache with the service's list. If a mutation begins
// while the call is in flight, the call is cancelled and Refresh returns
// ErrStale without touching the cache.
func (c *Controller) Refresh(ctx context.Context) error {
	fetchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	c.mu.Lock()
	key := c.nextLoad
	c.nextLoad++
	c.inflight[key] = cancel
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		c.mu.Unlock()
	}()

	epoch := c.cache.Epoch()
	todos, err := c.svc.ListTodos(fetchCtx)
	if err != nil {
		if fetchCtx.Err() != nil && ctx.Err() == nil {
			return ErrStale
		}
		return fmt.Errorf("list todos: %w", err)
	}
	if !c.cache.replaceAt(epoch, todos) {
		c.logger.Debug("discarding stale list result", "count", len(todos))
		return ErrStale
	}
	c.logger.Debug("cache refreshed", "count", len(todos))
	return nil
}

// cancelInflight marks every outstanding list call stale.
func (c *Controller) cancelInflight() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, cancel := range c.inflight {
		cancel()
		delete(c.inflight, key)
	}
}

// BeginAdd prepends a todo with a temporary ID. Titles are trimmed; an
// empty title is a no-op and returns false.
func (c *Controller) BeginAdd(title string) (*Op, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, false
	}
	c.cancelInflight()

	var tempID string
	snapshot := c.cache.begin(func(items []service.Todo) []service.Todo {
		tempID = c.ids()
		for indexOf(items, tempID) >= 0 {
			tempID = c.ids()
		}
		return append([]service.Todo{{ID: tempID, Title: title}}, items...)
	})
	return c.newOp(KindAdd, tempID, title, snapshot), true
}

// BeginUpdate replaces the title of the todo with the given ID in place.
// It returns false for temporary IDs, which the server does not know yet.
func (c *Controller) BeginUpdate(id, title string) (*Op, bool) {
	if IsTemp(id) {
		return nil, false
	}
	c.cancelInflight()

	snapshot := c.cache.begin(func(items []service.Todo) []service.Todo {
		if i := indexOf(items, id); i >= 0 {
			items[i].Title = title
		}
		return items
	})
	return c.newOp(KindUpdate, id, title, snapshot), true
}

// BeginDelete removes the todo with the given ID. Removing an absent ID
// leaves the cache unchanged. It returns false for temporary IDs.
func (c *Controller) BeginDelete(id string) (*Op, bool) {
	if IsTemp(id) {
		return nil, false
	}
	c.cancelInflight()

	snapshot := c.cache.begin(func(items []service.Todo) []service.Todo {
		if i := indexOf(items, id); i >= 0 {
			items = append(items[:i], items[i+1:]...)
		}
		return items
	})
	return c.newOp(KindDelete, id, "", snapshot), true
}

// Add begins and settles an add.
func (c *Controller) Add(ctx context.Context, title string) Result {
	op, ok := c.BeginAdd(title)
	if !ok {
		return Result{Kind: KindAdd, Outcome: Skipped}
	}
	return op.Settle(ctx)
}

// Update begins and settles an update.
func (c *Controller) Update(ctx context.Context, id, title string) Result {
	op, ok := c.BeginUpdate(id, title)
	if !ok {
		return Result{Kind: KindUpdate, ID: id, Outcome: Skipped}
	}
	return op.Settle(ctx)
}

// Delete begins and settles a delete.
func (c *Controller) Delete(ctx context.Context, id string) Result {
	op, ok := c.BeginDelete(id)
	if !ok {
		return Result{Kind: KindDelete, ID: id, Outcome: Skipped}
	}
	return op.Settle(ctx)
}

func (c *Controller) newOp(kind Kind, id, title string, snapshot []service.Todo) *Op {
	return &Op{
		ctrl:     c,
		kind:     kind,
		id:       id,
		title:    title,
		snapshot: snapshot,
	}
}

// Op is a mutation whose begin phase has been applied.
type Op struct {
	ctrl     *Controller
	kind     Kind
	id       string
	title    string
	snapshot []service.Todo
	settled  atomic.Bool
}

// Kind returns the mutation kind.
func (o *Op) Kind() Kind { return o.kind }

// ID returns the target ID; for adds this is the temporary ID.
func (o *Op) ID() string { return o.id }

// Settle issues the remote call and commits or aborts. An Op settles once;
// later calls return an aborted result without touching the cache.
func (o *Op) Settle(ctx context.Context) Result {
	if !o.settled.CompareAndSwap(false, true) {
		return Result{Kind: o.kind, ID: o.id, Outcome: Aborted, Err: errSettled}
	}

	ctx, span := o.ctrl.tracer.Start(ctx, "todo."+string(o.kind),
		trace.WithAttributes(attribute.String("todo.id", o.id)))
	defer span.End()

	echo, err := o.call(ctx)
	if err != nil {
		o.abort(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.String("todo.outcome", Aborted.String()))
		return Result{Kind: o.kind, ID: o.id, Outcome: Aborted, Err: err}
	}

	o.commit(ctx, echo)
	span.SetAttributes(attribute.String("todo.outcome", Committed.String()))
	return Result{Kind: o.kind, ID: o.id, Outcome: Committed, Todo: echo}
}

func (o *Op) call(ctx context.Context) (service.Todo, error) {
	svc := o.ctrl.svc
	switch o.kind {
	case KindAdd:
		return svc.CreateTodo(ctx, o.title)
	case KindUpdate:
		return svc.UpdateTodo(ctx, o.id, o.title)
	case KindDelete:
		return service.Todo{ID: o.id}, svc.DeleteTodo(ctx, o.id)
	}
	return service.Todo{}, fmt.Errorf("unknown mutation kind: %s", o.kind)
}

// abort restores the snapshot taken at begin, even if other mutations have
// changed the cache since.
func (o *Op) abort(err error) {
	o.ctrl.cache.restore(o.snapshot)
	o.ctrl.logger.Error(o.kind.title()+" todo failed, rolled back", "id", o.id, "err", err)
}

func (o *Op) commit(ctx context.Context, echo service.Todo) {
	c := o.ctrl
	if c.policy == PolicyEcho {
		o.foldEcho(echo)
		return
	}

	if err := c.Refresh(ctx); err != nil {
		if errors.Is(err, ErrStale) {
			return
		}
		c.logger.Warn("refetch after "+string(o.kind)+" failed, using server echo", "err", err)
		o.foldEcho(echo)
	}
}

// foldEcho replaces the target of an add or update with the server's copy.
func (o *Op) foldEcho(echo service.Todo) {
	o.ctrl.cache.reconcile(func(items []service.Todo) []service.Todo {
		switch o.kind {
		case KindAdd, KindUpdate:
			if i := indexOf(items, o.id); i >= 0 {
				items[i] = echo
			}
		}
		return items
	})
	o.ctrl.logger.Debug("reconciled from server echo", "kind", o.kind, "id", echo.ID)
}
