package ipc_test

import (
	"context"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"lookout/internal/capture"
	"lookout/internal/config"
	"lookout/internal/daemon"
	"lookout/internal/frame"
	"lookout/internal/ipc"
	"lookout/internal/logging"
	"lookout/internal/testsupport"
)

func stubFrames(n int) []*frame.Frame {
	frames := make([]*frame.Frame, n)
	for i := range frames {
		frames[i] = &frame.Frame{Gray: image.NewGray(image.Rect(0, 0, 8, 8)), Sequence: int64(i + 1)}
	}
	return frames
}

func TestIPCServerClient(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	logPath := filepath.Join(cfg.Paths.LogDir, "ipc-test.log")
	logger := logging.NewNop()

	d, err := daemon.New(cfg, store, logger, logPath,
		daemon.WithSourceFactory(func(*config.Config, *slog.Logger) (capture.Source, error) {
			return capture.NewStub(stubFrames(4)...), nil
		}))
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	t.Cleanup(func() {
		d.Close()
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	socket := filepath.Join(cfg.Paths.LogDir, "lookout.sock")
	srv, err := ipc.NewServer(ctx, socket, d, logger)
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping IPC server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	srv.Serve()
	t.Cleanup(func() {
		srv.Close()
	})

	time.Sleep(50 * time.Millisecond)

	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() {
		client.Close()
	})

	status, err := client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("daemon must not be running before Start")
	}
	if status.PID <= 0 {
		t.Fatalf("expected a pid, got %d", status.PID)
	}

	startResp, err := client.Start()
	if err != nil {
		t.Fatalf("Start RPC failed: %v", err)
	}
	if !startResp.Started {
		t.Fatalf("expected Started=true, message=%s", startResp.Message)
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Running {
		t.Fatal("expected daemon to be running")
	}
	if !strings.HasSuffix(status.HistoryDBPath, "history.db") {
		t.Fatalf("unexpected history db path %q", status.HistoryDBPath)
	}

	pauseResp, err := client.Pause()
	if err != nil {
		t.Fatalf("Pause RPC failed: %v", err)
	}
	if !pauseResp.Paused {
		t.Fatalf("expected paused, message=%s", pauseResp.Message)
	}
	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if !status.Paused {
		t.Fatal("expected paused status")
	}

	resumeResp, err := client.Resume()
	if err != nil {
		t.Fatalf("Resume RPC failed: %v", err)
	}
	if !resumeResp.Resumed {
		t.Fatalf("expected resumed, message=%s", resumeResp.Message)
	}

	if _, err := store.Record(ctx, time.Now(), 0.75, "edges", "10,10,40x80", ""); err != nil {
		t.Fatalf("record sighting: %v", err)
	}

	recentResp, err := client.RecentSightings(10)
	if err != nil {
		t.Fatalf("RecentSightings failed: %v", err)
	}
	if len(recentResp.Sightings) != 1 {
		t.Fatalf("expected 1 sighting, got %d", len(recentResp.Sightings))
	}
	if recentResp.Sightings[0].Method != "edges" {
		t.Fatalf("unexpected sighting %+v", recentResp.Sightings[0])
	}

	statsResp, err := client.SightingStats()
	if err != nil {
		t.Fatalf("SightingStats failed: %v", err)
	}
	if statsResp.Total != 1 || statsResp.ByMethod["edges"] != 1 {
		t.Fatalf("unexpected stats %+v", statsResp)
	}

	notifyResp, err := client.TestNotification()
	if err != nil {
		t.Fatalf("TestNotification failed: %v", err)
	}
	if notifyResp.Sent {
		t.Fatal("disabled backend must not send")
	}
	if notifyResp.Message == "" {
		t.Fatal("expected notification message")
	}

	if err := os.WriteFile(logPath, []byte("first\nsecond\nthird\n"), 0o644); err != nil {
		t.Fatalf("write log file: %v", err)
	}
	logResp, err := client.LogTail(ipc.LogTailRequest{Offset: -1, Limit: 2})
	if err != nil {
		t.Fatalf("LogTail failed: %v", err)
	}
	if len(logResp.Lines) != 2 || logResp.Lines[0] != "second" || logResp.Lines[1] != "third" {
		t.Fatalf("unexpected log tail response: %#v", logResp.Lines)
	}

	clearResp, err := client.ClearHistory()
	if err != nil {
		t.Fatalf("ClearHistory failed: %v", err)
	}
	if clearResp.Removed != 1 {
		t.Fatalf("expected 1 row removed, got %d", clearResp.Removed)
	}

	stopResp, err := client.Stop()
	if err != nil {
		t.Fatalf("Stop RPC failed: %v", err)
	}
	if !stopResp.Stopped {
		t.Fatal("expected stop response to be true")
	}

	status, err = client.Status()
	if err != nil {
		t.Fatalf("Status RPC failed: %v", err)
	}
	if status.Running {
		t.Fatal("expected daemon to be stopped")
	}
}
