package render

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"

	"github.com/krisalay/smartcache/memo"
	"github.com/krisalay/smartcache/types"
)

// Snippet is a block of source code and its (possibly empty) language.
type Snippet struct {
	Language string
	Source   string
}

// CodeOptions configures the highlighter.
type CodeOptions struct {
	// Style is a chroma style name, e.g. "monokai". Unknown names fall back
	// to chroma's default style.
	Style string

	// Formatter is a chroma formatter name, e.g. "terminal256" or "html".
	Formatter string

	// TTL bounds how long a highlight is reused; zero uses the cache default.
	TTL time.Duration

	// SingleFlight makes concurrent highlights of the same snippet share one call.
	SingleFlight bool
}

// Code syntax-highlights snippets, memoized per language and source.
type Code struct {
	style     *chroma.Style
	formatter chroma.Formatter

	highlight memo.Producer[Snippet, string]
}

// NewCode creates a highlighter that caches its output in store.
func NewCode(store types.Store, opts CodeOptions) *Code {
	styleName := opts.Style
	if styleName == "" {
		styleName = "monokai"
	}
	formatterName := opts.Formatter
	if formatterName == "" {
		formatterName = "terminal256"
	}

	c := &Code{
		style:     styles.Get(styleName),
		formatter: formatters.Get(formatterName),
	}
	c.highlight = memo.Memoize(store, func(s Snippet) string {
		return strings.ToLower(s.Language) + ":" + fingerprint(s.Source)
	}, c.highlightUncached, opts.TTL,
		memoOptions(fmt.Sprintf("%s%s:%s:", codePrefix, styleName, formatterName), opts.SingleFlight)...)
	return c
}

// Highlight returns src with syntax highlighting for language. An empty
// language is detected from the source.
func (c *Code) Highlight(ctx context.Context, language, src string) (string, error) {
	return c.highlight(ctx, Snippet{Language: language, Source: src})
}

func (c *Code) highlightUncached(ctx context.Context, s Snippet) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lexer := lexers.Get(s.Language)
	if lexer == nil {
		lexer = lexers.Analyse(s.Source)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, s.Source)
	if err != nil {
		return "", fmt.Errorf("failed to tokenise %s source: %w", lexer.Config().Name, err)
	}

	var buf strings.Builder
	if err := c.formatter.Format(&buf, c.style, iterator); err != nil {
		return "", fmt.Errorf("failed to format %s source: %w", lexer.Config().Name, err)
	}
	return buf.String(), nil
}

// DetectLanguage names the language chroma recognises in src, or "" if none.
func DetectLanguage(src string) string {
	if lexer := lexers.Analyse(src); lexer != nil {
		return strings.ToLower(lexer.Config().Name)
	}
	return ""
}
