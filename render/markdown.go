package render

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/krisalay/smartcache/memo"
	"github.com/krisalay/smartcache/types"
)

// MarkdownOptions configures the glamour renderer.
type MarkdownOptions struct {
	// Style is a glamour standard style ("dark", "light", "notty", "ascii",
	// "dracula", ...) or "auto" to detect from the terminal.
	Style string

	// WordWrap is the column to wrap at; zero disables wrapping.
	WordWrap int

	// TTL bounds how long a rendering is reused; zero uses the cache default.
	TTL time.Duration

	// SingleFlight makes concurrent renders of the same source share one call.
	SingleFlight bool
}

// Markdown renders Markdown for the terminal, memoized per source text.
type Markdown struct {
	// glamour's renderer keeps internal buffers; one render at a time.
	mu sync.Mutex
	tr *glamour.TermRenderer

	render memo.Producer[string, string]
}

// NewMarkdown creates a renderer that caches its output in store.
func NewMarkdown(store types.Store, opts MarkdownOptions) (*Markdown, error) {
	style := strings.ToLower(strings.TrimSpace(opts.Style))
	if style == "" {
		style = "dark"
	}

	ropts := []glamour.TermRendererOption{glamour.WithWordWrap(opts.WordWrap)}
	if style == "auto" {
		ropts = append(ropts, glamour.WithAutoStyle())
	} else {
		ropts = append(ropts, glamour.WithStandardStyle(style))
	}

	tr, err := glamour.NewTermRenderer(ropts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	m := &Markdown{tr: tr}
	m.render = memo.Memoize(store, fingerprint, m.renderUncached, opts.TTL,
		memoOptions(fmt.Sprintf("%s%s:%d:", markdownPrefix, style, opts.WordWrap), opts.SingleFlight)...)
	return m, nil
}

// Render returns the terminal rendering of src.
func (m *Markdown) Render(ctx context.Context, src string) (string, error) {
	return m.render(ctx, src)
}

func (m *Markdown) renderUncached(ctx context.Context, src string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out, err := m.tr.Render(src)
	if err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return out, nil
}
