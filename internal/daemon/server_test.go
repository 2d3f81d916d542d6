package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeSrc(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// startTestServer launches a daemon against root and returns it once the
// socket is accepting connections, along with a function that blocks until
// Start has fully returned.
func startTestServer(t *testing.T, root string) (*Server, func()) {
	t.Helper()
	s := New(root, nil, nil)

	done := make(chan error, 1)
	go func() { done <- s.Start(context.Background()) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(SocketPath(root))
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	return s, func() {
		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(2 * time.Second):
			t.Fatal("daemon did not shut down")
		}
	}
}

func TestDaemonPing(t *testing.T) {
	root := t.TempDir()
	writeSrc(t, root, "main.go", "package main\nfunc main() {}\n")

	_, wait := startTestServer(t, root)

	resp, err := SendRequest(root, Request{Command: "ping"})
	require.NoError(t, err)
	require.Equal(t, "pong", resp.Status)

	resp, err = SendRequest(root, Request{Command: "shutdown"})
	require.NoError(t, err)
	require.Equal(t, "goodbye", resp.Status)
	wait()

	require.NoFileExists(t, SocketPath(root))
	require.NoFileExists(t, PidPath(root))
}

func TestDaemonStatsAndSearch(t *testing.T) {
	root := t.TempDir()
	writeSrc(t, root, "auth.rs", "pub fn login(u: &str) {\n    validate(u);\n}\nfn validate(s: &str) {}\n")

	_, wait := startTestServer(t, root)
	defer func() {
		_, _ = SendRequest(root, Request{Command: "shutdown"})
		wait()
	}()

	statsResp, err := SendRequest(root, Request{Command: "stats"})
	require.NoError(t, err)
	require.Equal(t, "ok", statsResp.Status)

	searchResp, err := SendRequest(root, Request{Command: "search", Query: "login", Depth: 1})
	require.NoError(t, err)
	require.Equal(t, "ok", searchResp.Status)

	depsResp, err := SendRequest(root, Request{Command: "deps", Symbol: "login"})
	require.NoError(t, err)
	require.Equal(t, "ok", depsResp.Status)
}

func TestDaemonRebuildReflectsNewFiles(t *testing.T) {
	root := t.TempDir()
	writeSrc(t, root, "a.go", "package main\nfunc A() {}\n")

	_, wait := startTestServer(t, root)
	defer func() {
		_, _ = SendRequest(root, Request{Command: "shutdown"})
		wait()
	}()

	writeSrc(t, root, "b.go", "package main\nfunc B() {}\n")

	resp, err := SendRequest(root, Request{Command: "rebuild"})
	require.NoError(t, err)
	require.Equal(t, "ok", resp.Status)

	searchResp, err := SendRequest(root, Request{Command: "search", Query: "B", Depth: 0})
	require.NoError(t, err)
	require.Equal(t, "ok", searchResp.Status)
	data, ok := searchResp.Data.(map[string]any)
	require.True(t, ok)
	require.NotEmpty(t, data["symbols"])
}

func TestDaemonUnknownCommandIsProtocolError(t *testing.T) {
	root := t.TempDir()
	writeSrc(t, root, "main.go", "package main\nfunc main() {}\n")

	_, wait := startTestServer(t, root)
	defer func() {
		_, _ = SendRequest(root, Request{Command: "shutdown"})
		wait()
	}()

	resp, err := SendRequest(root, Request{Command: "frobnicate"})
	require.NoError(t, err)
	require.Equal(t, "error", resp.Status)
	require.Contains(t, resp.Message, "protocol error")
}

func TestIsRunningFalseWithoutPidfile(t *testing.T) {
	root := t.TempDir()
	require.False(t, IsRunning(root))
}
