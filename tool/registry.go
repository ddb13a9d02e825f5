package tool

import (
	"fmt"
	"strings"
)

var (
	// ErrDuplicateName is returned when registering a tool whose name is
	// already taken.
	ErrDuplicateName = fmt.Errorf("tool name already registered")

	// ErrInvalidCapability is returned when a registered value does not
	// satisfy the Tool contract (nil interface or empty name).
	ErrInvalidCapability = fmt.Errorf("value does not satisfy the tool capability")

	// ErrNotFound is returned when looking up a tool that was never
	// registered.
	ErrNotFound = fmt.Errorf("tool not found")
)

// Registry is a name-keyed lookup table of tools. It is populated once at
// startup and treated as immutable afterward, which is why lookups take no
// lock: Register is not safe to call concurrently with Get, and callers are
// expected to finish registration before serving traffic.
type Registry struct {
	tools map[string]Tool
	order []string
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool under its own name. It fails with ErrDuplicateName
// when the name is taken and ErrInvalidCapability when the value is nil or
// unnamed. Registration failures are startup failures; they are never
// expected at request time.
func (r *Registry) Register(t Tool) error {
	if t == nil || t.Name() == "" {
		return ErrInvalidCapability
	}
	if _, exists := r.tools[t.Name()]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateName, t.Name())
	}
	r.tools[t.Name()] = t
	r.order = append(r.order, t.Name())
	return nil
}

// MustRegister registers a tool and panics on failure. Intended for startup
// wiring where a registration error is fatal to boot anyway.
func (r *Registry) MustRegister(t Tool) {
	if err := r.Register(t); err != nil {
		panic(err)
	}
}

// Get returns the tool registered under name, or ErrNotFound.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return t, nil
}

// Names returns the tool names in registration order, for prompt rendering.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Describe renders the tool description block embedded into the system
// prompt: one name/description pair per registered tool, in registration
// order.
func (r *Registry) Describe() string {
	blocks := make([]string, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		blocks = append(blocks, fmt.Sprintf("{\"name\": %q, \"description\": %q}", t.Name(), t.Description()))
	}
	return strings.Join(blocks, ", \n")
}

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }
