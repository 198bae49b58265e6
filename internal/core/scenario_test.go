package core

import (
	"bytes"
	"context"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rescale/dataset-fetch/internal/cloud/providers"
	"github.com/rescale/dataset-fetch/internal/constants"
	"github.com/rescale/dataset-fetch/internal/jobs"
	"github.com/rescale/dataset-fetch/internal/logging"
	"github.com/rescale/dataset-fetch/internal/progress"
	"github.com/rescale/dataset-fetch/internal/transfer"
)

const tenMB = 10 * 1024 * 1024

// directFixture wires the real direct-transfer stack against a test server.
type directFixture struct {
	server     *httptest.Server
	logs       bytes.Buffer
	out        bytes.Buffer
	downloader *transfer.Downloader
	root       string
}

func newDirectFixture(t *testing.T, handler nethttp.Handler) *directFixture {
	t.Helper()
	f := &directFixture{root: t.TempDir()}
	f.server = httptest.NewServer(handler)
	t.Cleanup(f.server.Close)

	logger := logging.NewTestLogger(&f.logs)
	factory := providers.NewFactory(nil, f.server.Client(), logger)
	f.downloader = transfer.NewDownloader(factory, progress.NewLineUI(io.Discard, &f.logs), logger)
	f.downloader.SetPollInterval(5 * time.Millisecond)
	return f
}

func (f *directFixture) job(name, path string) jobs.Job {
	return jobs.Job{
		Source:      f.server.URL + path,
		Destination: filepath.Join(f.root, "data", "raw", name, filepath.Base(path)),
		Name:        name,
	}
}

func TestDirectSuccessTenMB(t *testing.T) {
	payload := bytes.Repeat([]byte("x"), tenMB)
	f := newDirectFixture(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Header().Set("Content-Length", "10485760")
		w.Write(payload)
	}))

	job := f.job("A", "/a.bin")
	var ratio float64
	runner := RunnerFunc(func(ctx context.Context, j jobs.Job) error {
		res := f.downloader.Fetch(ctx, j)
		ratio = res.Ratio
		return res.Err
	})

	summary := NewEngine(nil, 0, &f.out).Run(context.Background(), []jobs.Job{job}, runner)
	if summary.Failed != 0 {
		t.Fatalf("unexpected failure: %v", summary.Errors())
	}

	info, err := os.Stat(job.Destination)
	if err != nil {
		t.Fatalf("destination missing: %v", err)
	}
	if info.Size() != tenMB {
		t.Errorf("expected exactly %d bytes, got %d", tenMB, info.Size())
	}
	if !strings.Contains(f.logs.String(), "Downloaded A") {
		t.Errorf("expected success line with A:\n%s", f.logs.String())
	}
	if ratio != 1.0 {
		t.Errorf("expected final ratio 1.0, got %v", ratio)
	}
	if !strings.Contains(f.out.String(), constants.CompletionMessage) {
		t.Error("missing completion line")
	}
}

func TestDirectNotFoundDoesNotStopSiblings(t *testing.T) {
	f := newDirectFixture(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if r.URL.Path == "/a.bin" {
			nethttp.NotFound(w, r)
			return
		}
		w.Write([]byte("dataset bytes"))
	}))

	list := []jobs.Job{f.job("A", "/a.bin"), f.job("B", "/b.bin"), f.job("C", "/c.bin")}
	summary := NewEngine(nil, 0, &f.out).Run(context.Background(), list, f.downloader)

	if summary.Failed != 1 || summary.Succeeded != 2 {
		t.Fatalf("expected 1 failure and 2 successes, got %+v", summary)
	}
	logs := f.logs.String()
	if !strings.Contains(logs, "Failed to download A") {
		t.Errorf("expected failure line with A:\n%s", logs)
	}
	if strings.Contains(logs, "Downloaded A") {
		t.Errorf("A must not report success:\n%s", logs)
	}
	for _, name := range []string{"B", "C"} {
		if !strings.Contains(logs, "Downloaded "+name) {
			t.Errorf("sibling %s should complete:\n%s", name, logs)
		}
	}
	if !strings.Contains(f.out.String(), constants.CompletionMessage) {
		t.Error("missing completion line")
	}
}

func TestDirectDownloadsRunConcurrently(t *testing.T) {
	delays := map[string]time.Duration{
		"/a.bin": 50 * time.Millisecond,
		"/b.bin": 100 * time.Millisecond,
		"/c.bin": 150 * time.Millisecond,
	}
	f := newDirectFixture(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		time.Sleep(delays[r.URL.Path])
		w.Write([]byte("ok"))
	}))

	list := []jobs.Job{f.job("A", "/a.bin"), f.job("B", "/b.bin"), f.job("C", "/c.bin")}
	start := time.Now()
	summary := NewEngine(nil, 0, nil).Run(context.Background(), list, f.downloader)
	elapsed := time.Since(start)

	if summary.Failed != 0 {
		t.Fatalf("unexpected failures: %v", summary.Errors())
	}
	if elapsed < 150*time.Millisecond {
		t.Errorf("finished before the slowest download: %v", elapsed)
	}
	// Sequential execution would take at least 300ms
	if elapsed >= 280*time.Millisecond {
		t.Errorf("downloads did not overlap: took %v", elapsed)
	}
}

func TestDirectSecondRunSucceeds(t *testing.T) {
	f := newDirectFixture(t, nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		w.Write([]byte("ok"))
	}))

	list := []jobs.Job{f.job("A", "/a.bin")}
	for i := 0; i < 2; i++ {
		if s := NewEngine(nil, 0, nil).Run(context.Background(), list, f.downloader); s.Failed != 0 {
			t.Fatalf("run %d failed: %v", i+1, s.Errors())
		}
	}
}
