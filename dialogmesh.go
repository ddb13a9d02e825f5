// Package dialogmesh provides a high-level façade over the session manager
// and service abstractions (records, tools, pictures & logging) enabling
// rapid construction of conversational assistants. Most applications
// interact with this package by:
//  1. Creating a DialogMesh via New() with a model client (optionally
//     overriding default in-memory services)
//  2. Registering one or more tools
//  3. Asking questions per session via Ask
//
// The façade delegates orchestration to agent.Manager while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a durable record
// store and a structured logger.
package dialogmesh

import (
	"context"
	"time"

	"github.com/hupe1980/dialogmesh/agent"
	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/picture"
	"github.com/hupe1980/dialogmesh/record"
	"github.com/hupe1980/dialogmesh/tool"
)

// Options configures the DialogMesh instance.
type Options struct {
	// Patience caps how many reasoning steps one question may take before
	// the loop gives up with the fallback answer.
	Patience int

	// HistoryWindow limits how many past exchanges are replayed into each
	// prompt. Larger windows give the model more recall at higher token cost.
	HistoryWindow int

	// IdleTimeout and SweepInterval control background session eviction.
	IdleTimeout   time.Duration
	SweepInterval time.Duration

	// Stores (default to in-memory implementations if not provided)
	RecordStore  core.RecordStore
	PictureStore picture.Store

	// UserContextProvider resolves per-user profiles handed to tools.
	UserContextProvider core.UserContextProvider

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// DialogMesh is the high-level façade aggregating the session manager and
// its services.
type DialogMesh struct {
	opts     Options
	tools    *tool.Registry
	manager  *agent.Manager
	pictures picture.Store
}

// New creates a DialogMesh around the given model client with optional
// overrides. Any unset service is initialized with an in-memory
// implementation. Register tools before the first Ask; registration is not
// safe once sessions are live.
func New(client model.Client, optFns ...func(o *Options)) *DialogMesh {
	opts := Options{
		Patience:            agent.DefaultPatience,
		HistoryWindow:       agent.DefaultHistoryWindow,
		IdleTimeout:         agent.DefaultIdleTimeout,
		SweepInterval:       agent.DefaultSweepInterval,
		RecordStore:         record.NewInMemoryStore(),
		PictureStore:        picture.NewInMemoryStore(),
		UserContextProvider: core.StaticUserContextProvider{},
		Logger:              logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	tools := tool.NewRegistry()

	manager := agent.NewManager(client, tools, opts.RecordStore,
		agent.WithManagerLogger(opts.Logger),
		agent.WithPatience(opts.Patience),
		agent.WithHistoryWindow(opts.HistoryWindow),
		agent.WithIdleTimeout(opts.IdleTimeout),
		agent.WithSweepInterval(opts.SweepInterval),
		agent.WithUserContextProvider(opts.UserContextProvider),
	)

	return &DialogMesh{
		opts:     opts,
		tools:    tools,
		manager:  manager,
		pictures: opts.PictureStore,
	}
}

// RegisterTool adds a tool to the registry, failing on duplicate names.
func (m *DialogMesh) RegisterTool(t tool.Tool) error { return m.tools.Register(t) }

// MustRegisterTool adds a tool and panics on registration failure. Intended
// for startup wiring where a failure is a programming error.
func (m *DialogMesh) MustRegisterTool(t tool.Tool) { m.tools.MustRegister(t) }

// Ask runs one conversational turn in the given session and returns the
// final response. Concurrent calls for the same session are serialized;
// different sessions proceed in parallel.
func (m *DialogMesh) Ask(ctx context.Context, userID, sessionID, query string) (core.TurnResult, error) {
	return m.manager.UseSession(ctx, userID, sessionID, query)
}

// Pictures exposes the picture store so serving layers can resolve the ids
// referenced by TurnResult.ImageList.
func (m *DialogMesh) Pictures() picture.Store { return m.pictures }

// Tools exposes the tool registry, mainly for introspection.
func (m *DialogMesh) Tools() *tool.Registry { return m.tools }

// Close stops background session maintenance.
func (m *DialogMesh) Close() { m.manager.Close() }
