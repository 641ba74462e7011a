package s3blob

import (
	"context"
	"io"
	"testing"
	"time"
)

type captureWriter struct {
	path        string
	contentType string
	data        []byte
}

func (w *captureWriter) Put(ctx context.Context, path string, data io.Reader, contentType string) error {
	w.path = path
	w.contentType = contentType
	b, err := io.ReadAll(data)
	if err != nil {
		return err
	}
	w.data = b
	return nil
}

func TestArchiveKeyLayout(t *testing.T) {
	w := &captureWriter{}
	a := NewReportArchiver(w)

	at := time.Date(2026, 8, 23, 15, 10, 4, 0, time.UTC)
	doc := []byte(`{"timestamp":"2026-08-23T15:10:04Z"}`)

	if err := a.Archive(context.Background(), doc, at); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if want := "reports/2026/08/23/cycle_151004.json"; w.path != want {
		t.Errorf("path = %q, want %q", w.path, want)
	}
	if w.contentType != "application/json" {
		t.Errorf("content type = %q, want application/json", w.contentType)
	}
	if string(w.data) != string(doc) {
		t.Errorf("uploaded data differs from document")
	}
}

func TestArchiveKeyUsesUTC(t *testing.T) {
	w := &captureWriter{}
	a := NewReportArchiver(w)

	// 18:40 at UTC+3:30 is 15:10 UTC.
	tehran := time.FixedZone("UTC+3:30", int((3*time.Hour + 30*time.Minute).Seconds()))
	at := time.Date(2026, 8, 23, 18, 40, 4, 0, tehran)

	if err := a.Archive(context.Background(), []byte("{}"), at); err != nil {
		t.Fatalf("Archive: %v", err)
	}
	if want := "reports/2026/08/23/cycle_151004.json"; w.path != want {
		t.Errorf("path = %q, want %q", w.path, want)
	}
}
