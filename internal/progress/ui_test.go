package progress

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestRenderBar(t *testing.T) {
	tests := []struct {
		ratio float64
		width int
		want  string
	}{
		{0, 10, "[>         ] 0%"},
		{0.5, 10, "[=====>    ] 50%"},
		{1, 10, "[==========] 100%"},
		{1.7, 4, "[====] 100%"},
		{-1, 4, "[>   ] 0%"},
	}

	for _, tt := range tests {
		if got := RenderBar(tt.ratio, tt.width); got != tt.want {
			t.Errorf("RenderBar(%v, %d) = %q, want %q", tt.ratio, tt.width, got, tt.want)
		}
	}

	if got := RenderBar(0.25, 50); len(got) != len("[]")+50+len(" 25%") {
		t.Errorf("unexpected 50-column bar %q", got)
	}
}

func TestTruncatePath(t *testing.T) {
	if got := truncatePath("data/raw/CheXpert/CheXpert-v1.0-small.zip", 2); got != "…/CheXpert/CheXpert-v1.0-small.zip" {
		t.Errorf("unexpected truncation %q", got)
	}
	if got := truncatePath("file.zip", 2); got != "file.zip" {
		t.Errorf("short path should be unchanged, got %q", got)
	}
}

func TestLineUI(t *testing.T) {
	var bars, logs bytes.Buffer
	ui := NewLineUI(&bars, &logs)

	if ui.IsTerminal() {
		t.Error("line UI is never a terminal UI")
	}
	if ui.Writer() != &logs {
		t.Error("log lines should go to the log writer")
	}

	ok := ui.AddBar("A", "data/raw/A/a.zip", 1000)
	ok.Render(500, 1000, 0.5)
	ok.Render(1000, 1000, 1)
	ok.Finish(true)

	unknown := ui.AddBar("B", "data/raw/B/b.zip", -1)
	unknown.Render(300, 0, 0)
	unknown.Render(300, 300, 1)
	unknown.Finish(true)

	failed := ui.AddBar("C", "data/raw/C/c.zip", 1000)
	failed.Render(200, 1000, 0.2)
	failed.Finish(false)

	ui.Wait()

	out := bars.String()
	for _, want := range []string{
		RenderBar(1, 50) + " A: done",
		RenderBar(1, 50) + " B: done",
		RenderBar(0.2, 50) + " C: failed",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("bar output missing %q:\n%s", want, out)
		}
	}
}

func TestDownloadUIWaitReturnsAfterAllBarsFinish(t *testing.T) {
	var out bytes.Buffer
	ui := NewDownloadUI(&out)

	a := ui.AddBar("A", "data/raw/A/a.zip", 100)
	b := ui.AddBar("B", "data/raw/B/b.zip", -1)
	c := ui.AddBar("C", "data/raw/C/c.zip", 100)

	a.Render(100, 100, 1)
	a.Finish(true)
	b.Render(42, 0, 0)
	b.Render(42, 42, 1)
	b.Finish(true)
	c.Render(10, 100, 0.1)
	c.Finish(false)

	waited := make(chan struct{})
	go func() {
		ui.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after every bar finished")
	}
}
