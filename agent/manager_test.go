package agent

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/testutil"
	"github.com/hupe1980/dialogmesh/logging"
	"github.com/hupe1980/dialogmesh/model"
	"github.com/hupe1980/dialogmesh/record"
	"github.com/hupe1980/dialogmesh/tool"
)

var (
	actionResponse = testutil.DecisionText("looking it up", "probe", "{}")
	finalResponse  = testutil.FinalAnswerText("done", "ok")
)

func TestManagerCreatesSessionOnFirstUse(t *testing.T) {
	client := model.NewScriptedClient(finalResponse)
	m := NewManager(client, tool.NewRegistry(), record.NewInMemoryStore())
	defer m.Close()

	result, err := m.UseSession(context.Background(), "u1", "s1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "ok", result.SystemResponse)
	assert.Equal(t, 1, m.SessionCount())
}

func TestManagerReusesSession(t *testing.T) {
	client := model.NewScriptedClient(finalResponse, finalResponse)
	store := record.NewInMemoryStore()
	m := NewManager(client, tool.NewRegistry(), store)
	defer m.Close()

	_, err := m.UseSession(context.Background(), "u1", "s1", "first")
	require.NoError(t, err)
	_, err = m.UseSession(context.Background(), "u1", "s1", "second")
	require.NoError(t, err)

	assert.Equal(t, 1, m.SessionCount())

	recs, err := store.ListByConversation("s1", 10)
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

// Concurrent turns on the same session must run strictly one at a time.
func TestManagerSerializesSameSession(t *testing.T) {
	const turns = 4

	var active, maxActive int32
	tools := tool.NewRegistry()
	tools.MustRegister(tool.NewFunctionTool("probe", "Concurrency probe.",
		func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
			n := atomic.AddInt32(&active, 1)
			for {
				cur := atomic.LoadInt32(&maxActive)
				if n <= cur || atomic.CompareAndSwapInt32(&maxActive, cur, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return "probed", nil
		}))

	script := make([]string, 0, 2*turns)
	for i := 0; i < turns; i++ {
		script = append(script, actionResponse, finalResponse)
	}
	client := model.NewScriptedClient(script...)
	m := NewManager(client, tools, record.NewInMemoryStore())
	defer m.Close()

	var wg sync.WaitGroup
	errs := make([]error, turns)
	for i := 0; i < turns; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = m.UseSession(context.Background(), "u1", "shared", fmt.Sprintf("query %d", i))
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "turn %d", i)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive), "turns overlapped within one session")
}

// Turns in different sessions must be able to run at the same time: both
// tools block at a rendezvous that only releases once both are inside.
func TestManagerParallelAcrossSessions(t *testing.T) {
	var rendezvous sync.WaitGroup
	rendezvous.Add(2)

	tools := tool.NewRegistry()
	tools.MustRegister(tool.NewFunctionTool("probe", "Concurrency probe.",
		func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
			rendezvous.Done()
			rendezvous.Wait()
			return "probed", nil
		}))

	client := model.NewScriptedClient(actionResponse, actionResponse, finalResponse, finalResponse)
	m := NewManager(client, tools, record.NewInMemoryStore())
	defer m.Close()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, sid := range []string{"s1", "s2"} {
		wg.Add(1)
		go func(i int, sid string) {
			defer wg.Done()
			_, errs[i] = m.UseSession(context.Background(), "u1", sid, "query")
		}(i, sid)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	assert.Equal(t, 2, m.SessionCount())
}

func TestManagerEvictsIdleSessions(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	clock := func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return now
	}
	advance := func(d time.Duration) {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(d)
	}

	client := model.NewScriptedClient(finalResponse, finalResponse, finalResponse)
	store := record.NewInMemoryStore()
	m := NewManager(client, tool.NewRegistry(), store,
		WithIdleTimeout(5*time.Minute),
		WithManagerNow(clock),
	)
	defer m.Close()

	_, err := m.UseSession(context.Background(), "u1", "s1", "hello")
	require.NoError(t, err)
	_, err = m.UseSession(context.Background(), "u1", "s2", "hello")
	require.NoError(t, err)
	require.Equal(t, 2, m.SessionCount())

	// Touch s2 past the halfway point so only s1 goes stale.
	advance(3 * time.Minute)
	_, err = m.UseSession(context.Background(), "u1", "s2", "still here")
	require.NoError(t, err)

	advance(3 * time.Minute)
	m.evictIdle()

	assert.Equal(t, 1, m.SessionCount())
}

// Eviction drops routing state only; the conversation record survives, so a
// recreated session replays its history.
func TestManagerEvictionKeepsRecords(t *testing.T) {
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	client := model.NewScriptedClient(finalResponse, finalResponse)
	store := record.NewInMemoryStore()
	m := NewManager(client, tool.NewRegistry(), store, WithManagerNow(clock))
	defer m.Close()

	_, err := m.UseSession(context.Background(), "u1", "s1", "remember this")
	require.NoError(t, err)

	now = now.Add(DefaultIdleTimeout + time.Minute)
	m.evictIdle()
	require.Equal(t, 0, m.SessionCount())

	_, err = m.UseSession(context.Background(), "u1", "s1", "back again")
	require.NoError(t, err)

	calls := client.Calls()
	require.Len(t, calls, 2)

	var sawEarlier bool
	for _, msg := range calls[1] {
		if msg.Role == core.RoleUser && msg.Content == "remember this" {
			sawEarlier = true
		}
	}
	assert.True(t, sawEarlier)
}

// A rich logger wired through the manager gets session attributes and the
// uniform model/tool/turn events, with key/value args kept structured.
func TestManagerRichLoggerEvents(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewLogger(&logging.LoggerConfig{
		Level:  logging.LogLevelInfo,
		Format: "json",
		Output: &buf,
	})

	tools := tool.NewRegistry()
	tools.MustRegister(tool.NewFunctionTool("probe", "Concurrency probe.",
		func(ctx context.Context, input core.ActionInput, user core.UserContext, history []core.Message) (interface{}, error) {
			return "probed", nil
		}))

	client := model.NewScriptedClient(actionResponse, finalResponse)
	m := NewManager(client, tools, record.NewInMemoryStore(), WithManagerLogger(logger))
	defer m.Close()

	_, err := m.UseSession(context.Background(), "u1", "s1", "q")
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "Model call completed")
	assert.Contains(t, out, "Tool execution completed")
	assert.Contains(t, out, "Turn completed")
	assert.Contains(t, out, `"tool_name":"probe"`)
	assert.Contains(t, out, `"session_id":"s1"`)
	assert.Contains(t, out, `"component":"agent"`)
	assert.NotContains(t, out, "EXTRA")
}

func TestManagerCloseIsIdempotent(t *testing.T) {
	m := NewManager(model.NewScriptedClient(), tool.NewRegistry(), record.NewInMemoryStore())
	m.Close()
	m.Close()
	assert.Equal(t, 0, m.SessionCount())
}
