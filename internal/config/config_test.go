package config

import (
	"sync"
	"testing"
)

func TestApplyReloadableConcurrentReads(t *testing.T) {
	cfg := &Config{}
	cfg.Export.Artifact = "ransomware_assessment"
	cfg.Server.Port = "8080"

	next := &Config{}
	next.Export.Artifact = "resilience_review"
	next.Storage.ArchiveReport = true
	next.Server.Port = "9090"

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = cfg.ExportArtifact()
				_ = cfg.ArchiveReports()
			}
		}()
	}
	for i := 0; i < 50; i++ {
		cfg.ApplyReloadable(next)
	}
	wg.Wait()

	if cfg.ExportArtifact() != "resilience_review" || !cfg.ArchiveReports() {
		t.Fatalf("reloadable fields not applied: %q %v", cfg.ExportArtifact(), cfg.ArchiveReports())
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("non-reloadable field changed to %q", cfg.Server.Port)
	}
}
