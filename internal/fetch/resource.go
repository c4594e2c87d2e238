// Package fetch holds the loading primitives screens are built on: Resource for
// a single payload and Pager for paginated lists. Both hand out tea.Cmds and
// only commit the result of the request they started last.
package fetch

import (
	"context"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/justyntemme/libcat/pkg/models"
)

var owners atomic.Uint64

func nextOwner() uint64 {
	return owners.Add(1)
}

// Fetcher loads the payload at endpoint
type Fetcher[T any] func(ctx context.Context, endpoint string) (T, error)

// Requester issues a GET and decodes the body
type Requester interface {
	Request(ctx context.Context, path string, out any) error
}

// Enveloped returns a fetcher that unwraps the {data: T} envelope
func Enveloped[T any](client Requester) Fetcher[T] {
	return func(ctx context.Context, endpoint string) (T, error) {
		var env models.Envelope[T]
		if err := client.Request(ctx, endpoint, &env); err != nil {
			var zero T
			return zero, err
		}
		return env.Data, nil
	}
}

// Result is the message a Resource load produces
type Result[T any] struct {
	owner uint64
	gen   uint64
	Data  T
	Err   error
}

// Resource tracks one remote payload
type Resource[T any] struct {
	Data    T
	Loading bool
	Err     string

	fetch    Fetcher[T]
	endpoint string
	owner    uint64
	gen      uint64
	cancel   context.CancelFunc
	closed   bool
}

// NewResource creates an idle resource
func NewResource[T any](fetch Fetcher[T]) *Resource[T] {
	return &Resource[T]{fetch: fetch, owner: nextOwner()}
}

// Endpoint returns the endpoint of the latest load
func (r *Resource[T]) Endpoint() string {
	return r.endpoint
}

// Load starts fetching endpoint. Any request still in flight is cancelled and
// its result will be discarded.
func (r *Resource[T]) Load(endpoint string) tea.Cmd {
	if r.closed {
		return nil
	}

	r.stop()
	r.gen++
	r.endpoint = endpoint
	r.Loading = true
	r.Err = ""

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel

	owner, gen, fetch := r.owner, r.gen, r.fetch
	return func() tea.Msg {
		data, err := fetch(ctx, endpoint)
		return Result[T]{owner: owner, gen: gen, Data: data, Err: err}
	}
}

// Reload fetches the current endpoint again
func (r *Resource[T]) Reload() tea.Cmd {
	return r.Load(r.endpoint)
}

// Update applies msg if it is the result of the latest load. It reports whether
// msg belonged to this resource, current or not.
func (r *Resource[T]) Update(msg tea.Msg) bool {
	res, ok := msg.(Result[T])
	if !ok || res.owner != r.owner {
		return false
	}
	if r.closed || res.gen != r.gen {
		return true
	}

	r.stop()
	r.Loading = false
	if res.Err != nil {
		var zero T
		r.Data = zero
		r.Err = res.Err.Error()
		return true
	}
	r.Data = res.Data
	r.Err = ""
	return true
}

// Close cancels any request in flight. Results arriving afterwards are dropped.
func (r *Resource[T]) Close() {
	r.stop()
	r.closed = true
	r.Loading = false
}

func (r *Resource[T]) stop() {
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
