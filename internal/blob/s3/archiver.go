package s3blob

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"goldarb/internal/domain"
)

// ReportArchiver implements domain.ReportArchiver by uploading each cycle's
// JSON document to object storage, partitioned by date:
//
//	reports/2026/08/23/cycle_151004.json
type ReportArchiver struct {
	writer domain.BlobWriter
}

// NewReportArchiver creates a ReportArchiver over the given writer.
func NewReportArchiver(writer domain.BlobWriter) *ReportArchiver {
	return &ReportArchiver{writer: writer}
}

var _ domain.ReportArchiver = (*ReportArchiver)(nil)

// Archive uploads one cycle's report document. The object key is derived from
// the cycle timestamp in UTC.
func (a *ReportArchiver) Archive(ctx context.Context, document []byte, at time.Time) error {
	path := reportPath(at)
	if err := a.writer.Put(ctx, path, bytes.NewReader(document), "application/json"); err != nil {
		return fmt.Errorf("s3blob: archive report: %w", err)
	}
	return nil
}

func reportPath(at time.Time) string {
	at = at.UTC()
	return fmt.Sprintf("reports/%s/cycle_%s.json", at.Format("2006/01/02"), at.Format("150405"))
}
