// Package prompt assembles the ordered message sequence sent to the
// generation service. Assembly is a pure function of its inputs (plus an
// injectable clock), so identical inputs always produce byte-identical
// output.
package prompt

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/hupe1980/dialogmesh/core"
	"github.com/hupe1980/dialogmesh/internal/util"
)

// Builder renders the system template and composes prompt message lists for
// one registry of tools. A Builder is immutable after construction and safe
// for concurrent use.
type Builder struct {
	template         string
	toolDescriptions string
	toolNames        []string
	now              func() time.Time
}

// Option customizes Builder construction.
type Option func(*Builder)

// WithNow overrides the clock used to render the current date into the
// template. Tests use this to pin Build output.
func WithNow(now func() time.Time) Option {
	return func(b *Builder) { b.now = now }
}

// WithTemplate replaces the stock instruction template.
func WithTemplate(tmpl string) Option {
	return func(b *Builder) { b.template = tmpl }
}

// NewBuilder constructs a Builder for the given tool description block and
// ordered tool name list (both usually taken from a tool.Registry).
func NewBuilder(toolDescriptions string, toolNames []string, opts ...Option) *Builder {
	b := &Builder{
		template:         DefaultTemplate,
		toolDescriptions: toolDescriptions,
		toolNames:        append([]string(nil), toolNames...),
		now:              time.Now,
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build assembles the message list for one loop iteration:
//
//  1. the rendered system template, prepended as a system message when
//     includeSystemPrompt is true
//  2. the externally supplied history, verbatim
//  3. one trailing user message: the rendered template (re-embedded for
//     providers without a separate system role, only when
//     includeSystemPrompt is true) followed by the original query and the
//     JSON-serialized Raw of every context decision, newline-joined.
func (b *Builder) Build(query string, history []core.Message, context []core.Decision, includeSystemPrompt bool) ([]core.Message, error) {
	system, err := b.renderTemplate()
	if err != nil {
		return nil, err
	}

	messages := make([]core.Message, 0, len(history)+2)
	if includeSystemPrompt {
		messages = append(messages, core.SystemMessage(system))
	}
	messages = append(messages, history...)

	parts := make([]string, 0, len(context)+1)
	parts = append(parts, query)
	for _, d := range context {
		if d.Raw == "" {
			continue
		}
		raw, err := json.Marshal(d.Raw)
		if err != nil {
			return nil, err
		}
		parts = append(parts, string(raw))
	}

	content := strings.Join(parts, "\n")
	if includeSystemPrompt {
		content = system + content
	}
	messages = append(messages, core.UserMessage(content))

	return messages, nil
}

// renderTemplate fills the instruction template with the tool description
// block, the current date and the tool name list.
func (b *Builder) renderTemplate() (string, error) {
	return util.RenderTemplate(b.template, map[string]any{
		"ToolDescriptions": b.toolDescriptions,
		"Date":             b.now().Format("2006-01-02 15:04:05"),
		"ToolNames":        strings.Join(b.toolNames, ", "),
	})
}
