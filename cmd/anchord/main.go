// Command anchord is the thin external CLI front-end for the code
// intelligence daemon: it runs the daemon in the foreground ("daemon start"),
// forwards subcommands over its socket, and falls back to local-mode loading of the
// persisted graph when no daemon is running (spec.md §2, §6). The hard
// engineering lives in the library packages this binary dispatches to; this
// file mirrors the teacher's (onedusk-pd) flag-based positional-subcommand
// style in cmd/decompose/main.go rather than adopting a subcommand
// framework.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/anchorhq/anchord/internal/build"
	"github.com/anchorhq/anchord/internal/config"
	"github.com/anchorhq/anchord/internal/daemon"
	"github.com/anchorhq/anchord/internal/graph"
	"github.com/anchorhq/anchord/internal/query"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("anchord", flag.ContinueOnError)
	root := fs.String("root", ".", "project root to index")
	fs.Usage = func() { printUsage(fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	absRoot, err := filepath.Abs(*root)
	if err != nil {
		return fmt.Errorf("resolving project root: %w", err)
	}

	positional := fs.Args()
	if len(positional) == 0 {
		printUsage(fs)
		return fmt.Errorf("missing command")
	}

	switch positional[0] {
	case "daemon":
		return runDaemonCmd(absRoot, positional[1:])
	case "overview":
		return runQuery(absRoot, daemon.Request{Command: "overview"})
	case "stats":
		return runQuery(absRoot, daemon.Request{Command: "stats"})
	case "search":
		return runSearch(absRoot, positional[1:])
	case "context":
		return runContext(absRoot, positional[1:])
	case "deps":
		return runDeps(absRoot, positional[1:])
	case "build":
		return runBuild(absRoot)
	default:
		printUsage(fs)
		return fmt.Errorf("unknown command %q", positional[0])
	}
}

func runDaemonCmd(root string, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("daemon requires a start|stop|status subcommand")
	}
	switch args[0] {
	case "start":
		return runDaemonStart(root)
	case "stop":
		return runDaemonStop(root)
	case "status":
		return runDaemonStatus(root)
	default:
		return fmt.Errorf("unknown daemon subcommand %q", args[0])
	}
}

// runDaemonStart runs the daemon in the foreground until a SIGINT/SIGTERM or
// a client's "shutdown" request ends it.
func runDaemonStart(root string) error {
	cfg, err := config.Load(root)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	s := daemon.New(root, cfg, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		s.Shutdown()
	}()

	return s.Start(context.Background())
}

func runDaemonStop(root string) error {
	if !daemon.IsRunning(root) {
		fmt.Println("daemon is not running")
		return nil
	}
	resp, err := daemon.SendRequest(root, daemon.Request{Command: "shutdown"})
	if err != nil {
		return err
	}
	fmt.Println(daemon.Describe(resp))
	return nil
}

func runDaemonStatus(root string) error {
	if daemon.IsRunning(root) {
		fmt.Println("daemon is running")
	} else {
		fmt.Println("daemon is not running")
	}
	return nil
}

func runSearch(root string, args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)
	depth := fs.Int("depth", 0, "graph BFS depth")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("search requires a query")
	}
	q := fs.Arg(0)
	// Flags may also follow the query.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}
	return runQuery(root, daemon.Request{Command: "search", Query: q, Depth: *depth})
}

func runContext(root string, args []string) error {
	fs := flag.NewFlagSet("context", flag.ContinueOnError)
	intent := fs.String("intent", "explore", "query intent")
	newSignature := fs.String("new-signature", "", "replacement signature for change/modify/refactor intents")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("context requires a query")
	}
	q := fs.Arg(0)
	// Flags may also follow the query.
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return err
	}
	return runQuery(root, daemon.Request{
		Command:      "context",
		Query:        q,
		Intent:       *intent,
		NewSignature: *newSignature,
	})
}

func runDeps(root string, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("deps requires a symbol")
	}
	return runQuery(root, daemon.Request{Command: "deps", Symbol: args[0]})
}

func runBuild(root string) error {
	g, err := build.Build(context.Background(), root, build.Options{})
	if err != nil {
		return err
	}
	if err := graph.Save(g, daemon.GraphPath(root)); err != nil {
		return err
	}
	stats := query.GraphStats(g)
	printJSON(stats)
	return nil
}

// runQuery forwards req to a running daemon. When no daemon is reachable it
// falls back to local-mode: load the last persisted graph (building one if
// none exists) and evaluate the request directly, per spec.md §2's
// description of the CLI's local-mode fallback.
func runQuery(root string, req daemon.Request) error {
	if daemon.IsRunning(root) {
		resp, err := daemon.SendRequest(root, req)
		if err == nil {
			fmt.Println(daemon.Describe(resp))
			return nil
		}
		fmt.Fprintf(os.Stderr, "warning: daemon unreachable (%v), falling back to local mode\n", err)
	}

	g, err := loadOrBuildLocal(root)
	if err != nil {
		return err
	}
	return printLocalResult(g, req)
}

func loadOrBuildLocal(root string) (*graph.Graph, error) {
	g, err := graph.Load(daemon.GraphPath(root))
	if err == nil {
		return g, nil
	}
	return build.Build(context.Background(), root, build.Options{})
}

func printLocalResult(g *graph.Graph, req daemon.Request) error {
	switch req.Command {
	case "overview":
		printJSON(query.BuildOverview(g))
	case "stats":
		printJSON(query.GraphStats(g))
	case "search":
		printJSON(query.SearchGraph(g, req.Query, req.Depth))
	case "context":
		printJSON(query.GetContext(g, req.Query, req.Intent, req.NewSignature))
	case "deps":
		printJSON(query.Deps(g, req.Symbol))
	default:
		return fmt.Errorf("unsupported local-mode command %q", req.Command)
	}
	return nil
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return
	}
	fmt.Println(string(data))
}

func printUsage(fs *flag.FlagSet) {
	w := os.Stderr
	fmt.Fprintln(w, "anchord — code intelligence daemon")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  anchord [flags] daemon start|stop|status   Manage the background daemon")
	fmt.Fprintln(w, "  anchord [flags] overview                   Whole-repo summary")
	fmt.Fprintln(w, "  anchord [flags] search <query> [--depth N] Graph-BFS search")
	fmt.Fprintln(w, "  anchord [flags] context <query> [--intent I] [--new-signature SIG]")
	fmt.Fprintln(w, "  anchord [flags] deps <symbol>               Dependency/dependent lookup")
	fmt.Fprintln(w, "  anchord [flags] stats                       Graph statistics")
	fmt.Fprintln(w, "  anchord [flags] build                       One-shot local build + save")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
