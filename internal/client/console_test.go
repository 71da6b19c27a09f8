package client

import (
	"bytes"
	"resilience_assessment/internal/model"
	"resilience_assessment/internal/service"
	"strings"
	"testing"
)

func TestConsoleMarksAndProgress(t *testing.T) {
	var buf bytes.Buffer
	c := NewConsole(&buf)

	if c.IsCompleted(model.StagePreInfection, "backup_strategy") {
		t.Fatalf("nothing completed yet")
	}
	c.MarkCompleted(model.StagePreInfection, "backup_strategy")
	if !c.IsCompleted(model.StagePreInfection, "backup_strategy") {
		t.Fatalf("expected completion mark")
	}

	c.Progress(service.ProgressUpdate{
		Overall: 50,
		Stages:  []model.StageProgress{{Stage: model.StagePreInfection, Answered: 7, Total: 7, Percentage: 100}},
	})
	c.Error("Network error")

	out := buf.String()
	for _, want := range []string{
		"✓ Pre Infection / Backup Strategy",
		"[" + strings.Repeat("#", 15) + strings.Repeat(".", 15) + "] 50%",
		"7/7 100%",
		"[error] Network error",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestBarClamps(t *testing.T) {
	if got := bar(150); got != "["+strings.Repeat("#", barWidth)+"]" {
		t.Fatalf("unexpected bar %s", got)
	}
	if got := bar(-5); got != "["+strings.Repeat(".", barWidth)+"]" {
		t.Fatalf("unexpected bar %s", got)
	}
}
