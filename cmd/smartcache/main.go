package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	cache "github.com/krisalay/smartcache"
	"github.com/krisalay/smartcache/config"
	"github.com/krisalay/smartcache/logging"
	"github.com/krisalay/smartcache/memo"
	"github.com/krisalay/smartcache/metrics"
	"github.com/krisalay/smartcache/render"
)

func main() {
	os.Exit(realMain())
}

func realMain() int {
	ctx := context.Background()

	app := &cli.Command{
		Name:  "smartcache",
		Usage: "memory-bounded TTL cache for rendered content",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "TOML or YAML config file",
				Sources: cli.EnvVars("SMARTCACHE_CONFIG"),
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error (overrides the config file)",
			},
		},
		Commands: []*cli.Command{
			demoCommand(),
			renderCommand(),
			highlightCommand(),
			benchCommand(),
		},
	}

	if err := app.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// setup loads the config, initialises logging and builds the cache.
func setup(cmd *cli.Command) (*config.Config, *cache.SmartCache, *metrics.Counters, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, nil, err
	}
	level := cfg.LogLevel
	if l := cmd.String("log-level"); l != "" {
		level = l
	}
	if err := logging.Init(level); err != nil {
		return nil, nil, nil, err
	}

	counters := &metrics.Counters{}
	c, err := cfg.NewCache(counters)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, c, counters, nil
}

// ================= RENDER =================

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a Markdown file twice through the cache",
		ArgsUsage: "FILE",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("render: missing FILE argument")
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			cfg, c, counters, err := setup(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			md, err := render.NewMarkdown(c, render.MarkdownOptions{
				Style:        cfg.Render.Style,
				WordWrap:     cfg.Render.WordWrap,
				TTL:          cfg.RenderTTLDuration(),
				SingleFlight: cfg.SingleFlight,
			})
			if err != nil {
				return err
			}

			var out string
			for pass := 1; pass <= 2; pass++ {
				start := time.Now()
				out, err = md.Render(ctx, string(src))
				if err != nil {
					return err
				}
				log.Infof("pass %d rendered %s in %s", pass, filepath.Base(path), time.Since(start))
			}

			fmt.Print(out)
			printStats(c, counters)
			return nil
		},
	}
}

// ================= HIGHLIGHT =================

func highlightCommand() *cli.Command {
	return &cli.Command{
		Name:      "highlight",
		Usage:     "syntax-highlight a source file through the cache",
		ArgsUsage: "FILE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "lang",
				Usage: "language name; detected from the file when empty",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("highlight: missing FILE argument")
			}
			src, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("highlight: %w", err)
			}

			cfg, c, counters, err := setup(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			lang := cmd.String("lang")
			if lang == "" {
				lang = strings.TrimPrefix(filepath.Ext(path), ".")
			}

			code := render.NewCode(c, render.CodeOptions{
				Style:        cfg.Render.CodeStyle,
				Formatter:    cfg.Render.CodeFormatter,
				TTL:          cfg.RenderTTLDuration(),
				SingleFlight: cfg.SingleFlight,
			})
			out, err := code.Highlight(ctx, lang, string(src))
			if err != nil {
				return err
			}

			fmt.Print(out)
			printStats(c, counters)
			return nil
		},
	}
}

// ================= DEMO =================

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "walk through hits, expiry, eviction and memoization",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, c, counters, err := setup(cmd)
			if err != nil {
				return err
			}
			defer c.Close()
			return runDemo(ctx, cfg, c, counters)
		},
	}
}

func runDemo(ctx context.Context, cfg *config.Config, c *cache.SmartCache, counters *metrics.Counters) error {
	fmt.Println("\n==================== SYSTEM BOOT ====================")
	fmt.Println("EVICTION POLICY :", strings.ToUpper(cfg.Eviction))
	fmt.Println("CAPACITY        :", humanize.IBytes(uint64(c.Capacity())))

	// ====================================================
	fmt.Println("\n==================== 1) MISS THEN HIT ====================")
	_, ok := c.Get("a")
	fmt.Println("CACHE  → GET a found =", ok)
	c.Set("a", "alpha")
	v, _ := c.Get("a")
	fmt.Println("CACHE  → GET a =", v)

	// ====================================================
	fmt.Println("\n==================== 2) TTL EXPIRATION ====================")
	c.SetWithTTL("x", "temp-value", 100*time.Millisecond)
	fmt.Println("CACHE  → PUT x (TTL = 100ms), TTL left:", c.TTL("x").Round(time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	fmt.Println("CACHE  → entries before reading x =", c.Stats().Entries)
	_, ok = c.Get("x")
	fmt.Println("CACHE  → GET x found =", ok, "| entries after =", c.Stats().Entries)

	// ====================================================
	fmt.Println("\n==================== 3) MEMOIZE ====================")
	calls := 0
	slow := memo.Memoize(c, memo.Identity, func(_ context.Context, s string) (string, error) {
		calls++
		time.Sleep(20 * time.Millisecond)
		return strings.ToUpper(s), nil
	}, time.Minute, memo.WithPrefix("demo:"))
	for i := 0; i < 3; i++ {
		start := time.Now()
		out, err := slow(ctx, "expensive")
		if err != nil {
			return err
		}
		fmt.Printf("MEMO   → call %d = %s in %s (producer calls: %d)\n", i+1, out, time.Since(start).Round(time.Millisecond), calls)
	}

	// ====================================================
	fmt.Println("\n==================== 4) EVICTION ====================")
	chunk := strings.Repeat("x", 64*1024)
	n := int(c.Capacity()/int64(len(chunk))) + 8
	for i := 0; i < n; i++ {
		c.Set(fmt.Sprintf("k%d", i), chunk)
	}
	_, ok = c.Get("k0")
	fmt.Printf("CACHE  → inserted %d × %s, GET k0 found = %v\n", n, humanize.IBytes(uint64(len(chunk))), ok)

	// ====================================================
	fmt.Println("\n==================== 5) DELETE & CLEAR ====================")
	c.Delete("a")
	_, ok = c.Get("a")
	fmt.Println("CACHE  → GET a after delete found =", ok)
	c.Clear()
	fmt.Println("CACHE  → entries after clear =", c.Stats().Entries)

	printStats(c, counters)
	return nil
}

// ================= BENCH =================

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "concurrent load benchmark against the configured cache",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "keys", Value: 100000, Usage: "keys to preload"},
			&cli.IntFlag{Name: "goroutines", Value: 200, Usage: "concurrent readers"},
			&cli.IntFlag{Name: "ops", Value: 5000, Usage: "operations per goroutine"},
			&cli.IntFlag{Name: "write-percent", Value: 10, Usage: "share of operations that are writes"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, c, counters, err := setup(cmd)
			if err != nil {
				return err
			}
			defer c.Close()

			keys := int(cmd.Int("keys"))
			goroutines := int(cmd.Int("goroutines"))
			opsPerG := int(cmd.Int("ops"))
			writePct := int(cmd.Int("write-percent"))
			if keys <= 0 || goroutines <= 0 || opsPerG <= 0 {
				return fmt.Errorf("bench: keys, goroutines and ops must be positive")
			}

			fmt.Println("\n================ CACHE LOAD BENCHMARK =================")
			fmt.Println("Capacity      :", humanize.IBytes(uint64(c.Capacity())))
			fmt.Println("Eviction      :", cfg.Eviction)
			fmt.Println("Preload Keys  :", humanize.Comma(int64(keys)))
			fmt.Println("Goroutines    :", goroutines)
			fmt.Println("Ops/Goroutine :", humanize.Comma(int64(opsPerG)))
			fmt.Println("Writes        :", fmt.Sprintf("%d%%", writePct))

			log.Info("preloading cache")
			for i := 0; i < keys; i++ {
				c.Set(fmt.Sprintf("key-%d", i), i)
			}

			log.Info("running concurrency benchmark")
			start := time.Now()

			var wg sync.WaitGroup
			wg.Add(goroutines)
			for g := 0; g < goroutines; g++ {
				go func(id int) {
					defer wg.Done()
					for j := 0; j < opsPerG; j++ {
						key := fmt.Sprintf("key-%d", (id*opsPerG+j)%keys)
						if j%100 < writePct {
							c.Set(key, j)
						} else {
							c.Get(key)
						}
					}
				}(g)
			}
			wg.Wait()

			duration := time.Since(start)
			totalOps := goroutines * opsPerG

			fmt.Println("\n================ RESULTS =================")
			fmt.Printf("Total Operations : %s\n", humanize.Comma(int64(totalOps)))
			fmt.Printf("Total Time       : %v\n", duration)
			fmt.Printf("Throughput       : %s ops/sec\n", humanize.CommafWithDigits(float64(totalOps)/duration.Seconds(), 2))

			printStats(c, counters)
			return nil
		},
	}
}

func printStats(c *cache.SmartCache, counters *metrics.Counters) {
	stats := c.Stats()
	snap := counters.Snapshot()

	fmt.Fprintln(os.Stderr, "\n==================== STATS ====================")
	fmt.Fprintf(os.Stderr, "ENTRIES   : %s\n", humanize.Comma(int64(stats.Entries)))
	fmt.Fprintf(os.Stderr, "SIZE      : %s / %s\n", humanize.IBytes(uint64(stats.Size)), humanize.IBytes(uint64(stats.Capacity)))
	fmt.Fprintf(os.Stderr, "HITS      : %d\n", snap.Hits)
	fmt.Fprintf(os.Stderr, "MISSES    : %d\n", snap.Misses)
	fmt.Fprintf(os.Stderr, "HIT RATIO : %.1f%%\n", snap.HitRatio()*100)
	fmt.Fprintf(os.Stderr, "EVICTIONS : %d\n", snap.Evictions)
	fmt.Fprintf(os.Stderr, "EXPIRED   : %d\n", snap.Expired)
}
