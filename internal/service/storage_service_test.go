package service

import (
	"context"
	"os"
	"path/filepath"
	"resilience_assessment/internal/config"
	"resilience_assessment/internal/util"
	"testing"
	"time"
)

func TestArchiveReportLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = util.StorageLocal
	cfg.Storage.LocalPath = t.TempDir()

	svc := NewStorageService(cfg)
	svc.now = func() time.Time { return time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC) }

	url, err := svc.ArchiveReport(context.Background(), "session-1", "pdf", util.MimePDF, []byte("%PDF-1.3"))
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if url != "/uploads/reports/session-1/20260506-070809.pdf" {
		t.Fatalf("unexpected url %s", url)
	}

	stored, err := os.ReadFile(filepath.Join(cfg.Storage.LocalPath, "reports", "session-1", "20260506-070809.pdf"))
	if err != nil {
		t.Fatalf("read archived file: %v", err)
	}
	if string(stored) != "%PDF-1.3" {
		t.Fatalf("unexpected content %q", stored)
	}
}

func TestStorageFallsBackToLocal(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Type = "unknown"
	if _, ok := NewStorageService(cfg).Provider.(*LocalStorageProvider); !ok {
		t.Fatalf("expected local provider fallback")
	}
}

var (
	_ StorageProvider = (*LocalStorageProvider)(nil)
	_ StorageProvider = (*MinioStorageProvider)(nil)
	_ StorageProvider = (*OSSStorageProvider)(nil)
	_ ReportArchiver  = (*StorageService)(nil)
)
