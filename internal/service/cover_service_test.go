package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"harmonic/internal/config"
	"harmonic/internal/testutil"
)

func TestCoverServiceUploadAndResolve(t *testing.T) {
	repo := testutil.NewCoverRepoStub()
	cfg := &config.Config{CoverDir: t.TempDir(), ImageMaxUploadSizeMB: 1}
	svc := NewCoverService(repo, cfg)

	content := testutil.TinyPNG(t, 1200, 800)
	cover, err := svc.Upload(context.Background(), UploadCoverInput{
		UserID:      42,
		Filename:    "dune.png",
		ContentType: "image/png",
		Content:     content,
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if cover.ID == 0 || cover.Hash == "" {
		t.Fatalf("expected persisted cover metadata, got %+v", cover)
	}
	// Resized to fit within the bound, aspect preserved.
	if cover.Width != CoverMaxSize {
		t.Fatalf("expected width %d, got %d", CoverMaxSize, cover.Width)
	}

	for _, name := range []string{"cover.jpg", "cover.webp"} {
		path := filepath.Join(cfg.CoverDir, cover.Hash, name)
		if _, statErr := os.Stat(path); statErr != nil {
			t.Fatalf("expected file at %s: %v", path, statErr)
		}
	}

	// Same content by same user should dedupe.
	cover2, err := svc.Upload(context.Background(), UploadCoverInput{
		UserID:      42,
		Filename:    "dune-copy.png",
		ContentType: "image/png",
		Content:     content,
	})
	if err != nil {
		t.Fatalf("dedupe upload failed: %v", err)
	}
	if cover2.ID != cover.ID {
		t.Fatalf("expected deduped record id %d, got %d", cover.ID, cover2.ID)
	}

	_, fullPath, err := svc.ResolveForServing(context.Background(), cover.Hash, true)
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if filepath.Base(fullPath) != "cover.webp" {
		t.Fatalf("expected webp rendition, got %s", fullPath)
	}
}

func TestCoverServiceUploadPerUserHashes(t *testing.T) {
	repo := testutil.NewCoverRepoStub()
	cfg := &config.Config{CoverDir: t.TempDir(), ImageMaxUploadSizeMB: 1}
	svc := NewCoverService(repo, cfg)

	content := testutil.TinyPNG(t, 300, 300)
	a, err := svc.Upload(context.Background(), UploadCoverInput{UserID: 1, Filename: "a.png", Content: content})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	b, err := svc.Upload(context.Background(), UploadCoverInput{UserID: 2, Filename: "b.png", Content: content})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	if a.Hash == b.Hash {
		t.Fatal("expected distinct hashes for distinct uploaders")
	}
}

func TestCoverServiceUploadRejectsGarbage(t *testing.T) {
	repo := testutil.NewCoverRepoStub()
	cfg := &config.Config{CoverDir: t.TempDir(), ImageMaxUploadSizeMB: 1}
	svc := NewCoverService(repo, cfg)

	_, err := svc.Upload(context.Background(), UploadCoverInput{
		UserID:   1,
		Filename: "evil.png",
		Content:  []byte("not an image at all"),
	})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestCoverServiceUploadRejectsOversized(t *testing.T) {
	repo := testutil.NewCoverRepoStub()
	cfg := &config.Config{CoverDir: t.TempDir(), ImageMaxUploadSizeMB: 1}
	svc := NewCoverService(repo, cfg)

	_, err := svc.Upload(context.Background(), UploadCoverInput{
		UserID:   1,
		Filename: "huge.png",
		Content:  make([]byte, 2*1024*1024),
	})
	assertAppError(t, err, "VALIDATION_ERROR")
}

func TestCoverServiceResolveRejectsTraversal(t *testing.T) {
	repo := testutil.NewCoverRepoStub()
	cfg := &config.Config{CoverDir: t.TempDir(), ImageMaxUploadSizeMB: 1}
	svc := NewCoverService(repo, cfg)

	for _, hash := range []string{"../../etc/passwd", "ABCDEF", "", "zz"} {
		if _, _, err := svc.ResolveForServing(context.Background(), hash, false); err == nil {
			t.Fatalf("expected rejection for hash %q", hash)
		}
	}
}
