// Package logging configures the apex/log handler used across the cache.
package logging

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// Init sets up apex with a compact handler writing to stderr. An empty level
// is read from SMARTCACHE_LOG, defaulting to "error".
func Init(level string) error {
	return InitWriter(os.Stderr, level)
}

// InitWriter is Init with an explicit destination.
func InitWriter(w io.Writer, level string) error {
	if level == "" {
		level = os.Getenv("SMARTCACHE_LOG")
	}
	if level == "" {
		level = "error"
	}
	lvl, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	log.SetHandler(NewHandler(w))
	log.SetLevel(lvl)
	return nil
}

// Handler formats entries as "timestamp L message key=value ...".
type Handler struct {
	mu sync.Mutex
	w  io.Writer

	// now is swapped in tests.
	now func() time.Time
}

func NewHandler(w io.Writer) *Handler {
	return &Handler{w: w, now: time.Now}
}

// HandleLog implements the log.Handler interface
func (h *Handler) HandleLog(e *log.Entry) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %.1s %s",
		h.now().Format("2006-01-02 15:04:05"),
		strings.ToUpper(e.Level.String()),
		e.Message)

	names := e.Fields.Names()
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}
