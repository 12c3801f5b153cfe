package pagination

import (
	"context"

	"github.com/hanpama/graphcache/internal/cache"
	"github.com/hanpama/graphcache/internal/eventbus"
	"github.com/hanpama/graphcache/internal/events"
	"github.com/hanpama/graphcache/internal/log"
)

type Options struct {
	// MergeMode joins forward and backward pages. Defaults to Inwards.
	MergeMode MergeMode
}

type Option func(*Options)

func WithMergeMode(m MergeMode) Option { return func(o *Options) { o.MergeMode = m } }

// Relay returns a resolver that serves a relay-style connection field from
// every cached page of that field. Register it against the (type, field)
// pair of the connection.
func Relay(opts ...Option) cache.Resolver {
	o := Options{MergeMode: Inwards}
	for _, f := range opts {
		f(&o)
	}
	return func(ctx context.Context, args cache.Args, c cache.Cache, info cache.Info) (cache.Result, error) {
		return ResolveConnection(ctx, args, c, info, o.MergeMode)
	}
}

// ResolveConnection assembles the connection at info.ParentKey/info.FieldName
// for args. A zero Result is a miss and the caller should fetch.
func ResolveConnection(ctx context.Context, args cache.Args, c cache.Cache, info cache.Info, mode MergeMode) (cache.Result, error) {
	logger := log.FromContext(ctx).WithValues("entity", info.ParentKey, "field", info.FieldName)
	ev := events.ConnectionResolved{
		ParentKey: info.ParentKey,
		FieldName: info.FieldName,
		MergeMode: string(mode),
		Outcome:   Miss.String(),
	}

	page, err := Assemble(c, info.ParentKey, info.FieldName, args, mode)
	if err != nil {
		logger.Error(err, "cannot assemble connection")
		ev.Err = err
		eventbus.Publish(ctx, ev)
		return cache.Result{}, err
	}
	if page == nil {
		logger.V(1).Info("no cached pages for connection")
		eventbus.Publish(ctx, ev)
		return cache.Result{}, nil
	}

	completeness := Decide(c, info.ParentKey, info.FieldName, args, info.HasSchema)
	ev.Outcome = completeness.String()
	ev.Nodes = len(page.Nodes)
	eventbus.Publish(ctx, ev)
	logger.V(1).Info("assembled connection", "nodes", len(page.Nodes), "outcome", ev.Outcome)
	if completeness == Miss {
		return cache.Result{}, nil
	}
	return cache.Result{Value: page.Value(), Partial: completeness == Partial}, nil
}
