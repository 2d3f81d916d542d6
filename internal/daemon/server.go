package daemon

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/anchorhq/anchord/internal/anchorerr"
	"github.com/anchorhq/anchord/internal/build"
	"github.com/anchorhq/anchord/internal/config"
	"github.com/anchorhq/anchord/internal/extract"
	"github.com/anchorhq/anchord/internal/graph"
	"github.com/anchorhq/anchord/internal/lang"
	"github.com/anchorhq/anchord/internal/query"
	"github.com/anchorhq/anchord/internal/watch"
)

// Dir returns <root>/.anchor, the directory holding the socket, pidfile, and
// persisted graph (spec.md §6).
func Dir(root string) string { return filepath.Join(root, ".anchor") }

// SocketPath returns <root>/.anchor/anchor.sock.
func SocketPath(root string) string { return filepath.Join(Dir(root), "anchor.sock") }

// PidPath returns <root>/.anchor/daemon.pid.
func PidPath(root string) string { return filepath.Join(Dir(root), "daemon.pid") }

// GraphPath returns <root>/.anchor/graph.bin.
func GraphPath(root string) string { return filepath.Join(Dir(root), "graph.bin") }

// searchCacheKey identifies one memoized "search" response. The daemon's
// search-result LRU is an additive enrichment over spec.md (which specifies
// no caching) grounded on gnana997-uispec's pkg/indexer use of
// hashicorp/golang-lru for the same "repeat lookups against an in-memory
// index" shape; every entry is invalidated the instant the graph version it
// was computed against changes.
type searchCacheKey struct {
	query   string
	depth   int
	version uint64
}

// Server holds the single shared graph guarded by one process-wide
// readers-writer lock (spec.md §5), the watcher that keeps it current, and
// the listener accepting one-request-per-connection clients (spec.md §4.8).
type Server struct {
	Root   string
	Logger *slog.Logger
	Config *config.Config

	mu      sync.RWMutex
	graph   *graph.Graph
	version uint64 // bumped on every structural change, for cache invalidation

	searchCache *lru.Cache[searchCacheKey, query.SearchResult]

	shutdown  atomic.Bool
	listener  net.Listener
	watchStop chan struct{}
	watchDone chan error
}

// New constructs a Server for root. cfg and logger may be nil; sensible
// defaults are substituted.
func New(root string, cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &config.Config{}
	}
	cache, _ := lru.New[searchCacheKey, query.SearchResult](256)
	return &Server{Root: root, Logger: logger, Config: cfg, searchCache: cache}
}

// Start runs the full daemon lifecycle of spec.md §4.8: create .anchor/,
// write the pidfile, remove any stale socket, build the initial graph, start
// the watcher, then accept connections until a shutdown request or fatal
// accept error. It blocks until the daemon has fully drained.
func (s *Server) Start(ctx context.Context) error {
	dir := Dir(s.Root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return anchorerr.New(anchorerr.IO, dir, err)
	}

	sockPath := SocketPath(s.Root)
	if err := os.Remove(sockPath); err != nil && !os.IsNotExist(err) {
		return anchorerr.New(anchorerr.IO, sockPath, err)
	}

	pidPath := PidPath(s.Root)
	if err := os.WriteFile(pidPath, []byte(strconv.Itoa(os.Getpid())), 0o644); err != nil {
		return anchorerr.New(anchorerr.IO, pidPath, err)
	}

	s.Logger.Info("building initial graph", "root", s.Root)
	g, err := build.Build(ctx, s.Root, build.Options{Ignore: s.Config.IgnoreDirs, Logger: s.Logger})
	if err != nil {
		return anchorerr.New(anchorerr.IO, s.Root, err)
	}
	s.mu.Lock()
	s.graph = g
	s.version++
	s.mu.Unlock()

	ln, err := net.Listen("unix", sockPath)
	if err != nil {
		return anchorerr.New(anchorerr.IO, sockPath, err)
	}
	s.listener = ln
	s.Logger.Info("daemon listening", "socket", sockPath)

	s.watchStop = make(chan struct{})
	s.watchDone = make(chan error, 1)
	go s.runWatcher()

	acceptErr := s.acceptLoop()
	s.cleanup()
	return acceptErr
}

// acceptLoop is the "Serving" state of spec.md §4.8's daemon state machine:
// it hands each connection to its own goroutine and returns nil once
// Shutdown has closed the listener, or the underlying accept error
// otherwise.
func (s *Server) acceptLoop() error {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			return anchorerr.New(anchorerr.IO, "accept", err)
		}
		go s.handleConn(conn)
	}
}

// handleConn implements the one-request-per-connection protocol: read one
// JSON line, dispatch, write one JSON line, close. A panic while holding the
// graph lock is reported as a LockPoisoned error rather than crashing the
// daemon (spec.md §7, kind 5).
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		s.Logger.Debug("connection read error", "err", err)
		return
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return
	}

	var req Request
	if jsonErr := json.Unmarshal([]byte(line), &req); jsonErr != nil {
		s.writeResponse(conn, errorResponse(anchorerr.New(anchorerr.Protocol, "", jsonErr).Error()))
		return
	}

	resp := s.dispatchSafely(req)
	s.writeResponse(conn, resp)
}

func (s *Server) dispatchSafely(req Request) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			s.Logger.Error("panic handling request", "command", req.Command, "panic", r)
			resp = errorResponse(anchorerr.New(anchorerr.LockPoisoned, "", fmt.Errorf("%v", r)).Error())
		}
	}()
	return s.dispatch(req)
}

func (s *Server) writeResponse(conn net.Conn, resp Response) {
	data, err := json.Marshal(resp)
	if err != nil {
		data, _ = json.Marshal(errorResponse(anchorerr.New(anchorerr.Serialize, "", err).Error()))
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.Logger.Debug("connection write error", "err", err)
	}
}

// dispatch routes one decoded request to its handler. Reads take the graph
// lock for shared access; rebuild and watcher updates take it for exclusive
// access (spec.md §5). A request naming no command is a ProtocolError.
func (s *Server) dispatch(req Request) Response {
	switch req.Command {
	case "ping":
		return pong()

	case "shutdown":
		s.triggerShutdown()
		return goodbye()

	case "stats":
		g := s.rlock()
		defer s.runlock()
		return ok(query.GraphStats(g))

	case "search":
		return s.handleSearch(req)

	case "context":
		g := s.rlock()
		defer s.runlock()
		return ok(query.GetContext(g, req.Query, req.Intent, req.NewSignature))

	case "deps":
		g := s.rlock()
		defer s.runlock()
		return ok(query.Deps(g, req.Symbol))

	case "overview":
		g := s.rlock()
		defer s.runlock()
		return ok(query.BuildOverview(g))

	case "rebuild":
		return s.handleRebuild()

	default:
		return errorResponse(anchorerr.New(anchorerr.Protocol, "", fmt.Errorf("unknown command %q", req.Command)).Error())
	}
}

func (s *Server) handleSearch(req Request) Response {
	s.mu.RLock()
	version := s.version
	key := searchCacheKey{query: req.Query, depth: req.Depth, version: version}
	if cached, found := s.searchCache.Get(key); found {
		s.mu.RUnlock()
		return ok(cached)
	}
	result := query.SearchGraph(s.graph, req.Query, req.Depth)
	s.mu.RUnlock()

	s.searchCache.Add(key, result)
	return ok(result)
}

// handleRebuild performs the rebuild-then-swap idiom of spec.md §4.5/§9: the
// replacement graph is built entirely off-lock, and the write lock is taken
// only to swap the pointer, so read latency never waits on a full scan.
func (s *Server) handleRebuild() Response {
	g, err := build.Build(context.Background(), s.Root, build.Options{Ignore: s.Config.IgnoreDirs, Logger: s.Logger})
	if err != nil {
		return errorResponse(anchorerr.New(anchorerr.IO, s.Root, err).Error())
	}

	s.mu.Lock()
	s.graph = g
	s.version++
	s.mu.Unlock()
	s.searchCache.Purge()

	return ok(query.GraphStats(g))
}

func (s *Server) rlock() *graph.Graph {
	s.mu.RLock()
	return s.graph
}

func (s *Server) runlock() { s.mu.RUnlock() }

// Shutdown requests an orderly stop: the same effect a client's "shutdown"
// command has, exposed for in-process callers such as cmd/anchord's signal
// handler.
func (s *Server) Shutdown() { s.triggerShutdown() }

// triggerShutdown sets the shutdown flag and closes the listener so the
// blocked Accept call observes it immediately, per spec.md §4.8's state
// machine (Serving -> Draining on shutdown flag).
func (s *Server) triggerShutdown() {
	if s.shutdown.Swap(true) {
		return
	}
	_ = s.listener.Close()
	if s.watchStop != nil {
		close(s.watchStop)
	}
}

// cleanup removes the socket and pidfile once the accept loop has drained,
// the Exited state of spec.md §4.8's state machine.
func (s *Server) cleanup() {
	if s.watchDone != nil {
		<-s.watchDone
	}
	_ = os.Remove(SocketPath(s.Root))
	_ = os.Remove(PidPath(s.Root))
}

// runWatcher starts the debounced filesystem watcher and applies each
// survivor event under the graph write lock (spec.md §4.6). Watcher errors
// are logged, never fatal to the daemon.
func (s *Server) runWatcher() {
	w := &watch.Watcher{
		Root:     s.Root,
		Debounce: s.Config.Debounce(),
		IsValid: func(path string) bool {
			_, ok := lang.FromPath(path)
			return ok
		},
		Handler: s.applyWatchEvent,
		Logger:  s.Logger,
	}
	s.watchDone <- w.Start(s.watchStop)
}

// applyWatchEvent is the watch.Handler: the file read and parse happen
// off-lock (spec.md §5 names filesystem read and parser invocation as
// suspension points that must not happen inside the graph lock), and a
// single file's effect is then applied atomically under the write lock,
// exactly as spec.md §4.6 requires.
func (s *Server) applyWatchEvent(path string, exists bool) {
	var fe *extract.FileExtractions
	if exists {
		var err error
		fe, err = build.ExtractFile(path)
		if err != nil {
			s.Logger.Warn("watcher extract failed", "path", path, "err", err)
			return
		}
	}

	s.mu.Lock()
	if exists {
		build.ApplyFile(s.graph, path, fe)
	} else {
		s.graph.RemoveFile(path)
	}
	s.version++
	s.mu.Unlock()
	s.searchCache.Purge()
}

// IsRunning reports whether a daemon appears alive for root: its pidfile
// exists and signal 0 to its pid succeeds (spec.md §4.8's "Aliveness is
// tested externally" rule; the Go analogue of the original's
// libc::kill(pid, 0)).
func IsRunning(root string) bool {
	data, err := os.ReadFile(PidPath(root))
	if err != nil {
		return false
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return false
	}
	return syscall.Kill(pid, 0) == nil
}
