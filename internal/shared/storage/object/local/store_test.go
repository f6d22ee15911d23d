package local

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
)

func TestSaveAndOpenRoundTrip(t *testing.T) {
	store := New(t.TempDir())
	content := []byte("%PDF-1.4 lease agreement body")

	key, size, mimeType, err := store.Save(context.Background(), "u1", "lease.pdf", bytes.NewReader(content))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if size != int64(len(content)) {
		t.Errorf("size = %d, want %d", size, len(content))
	}
	if mimeType != "application/pdf" {
		t.Errorf("mime = %q", mimeType)
	}
	if !strings.Contains(key, "lease.pdf") {
		t.Errorf("key = %q, want sanitized name preserved", key)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer rc.Close()
	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, content) {
		t.Errorf("round trip mismatch")
	}
}

func TestSaveWithKeyStoresDerivedArtifact(t *testing.T) {
	store := New(t.TempDir()).(*Store)

	key := "u1hash/abc_lease.pdf.report.html"
	n, err := store.SaveWithKey(context.Background(), key, "text/html; charset=utf-8", strings.NewReader("<html></html>"))
	if err != nil {
		t.Fatalf("save with key: %v", err)
	}
	if n != int64(len("<html></html>")) {
		t.Errorf("written = %d", n)
	}

	rc, err := store.Open(context.Background(), key)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	rc.Close()
}

func TestOpenRejectsTraversal(t *testing.T) {
	store := New(t.TempDir())
	if _, err := store.Open(context.Background(), "../outside"); err == nil {
		t.Fatal("want error for traversal key")
	}
	if _, err := store.Open(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("want error for absolute key")
	}
}
