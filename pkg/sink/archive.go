package sink

import (
	"context"
	"fmt"

	"github.com/benmeehan/absensi-agent/internal/models"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/benmeehan/absensi-agent/pkg/s3"
)

// ArchiveSink keeps a copy of every submitted photo in object storage.
type ArchiveSink struct {
	storage s3.ObjectStorageClient
	bucket  string
}

func NewArchiveSink(storage s3.ObjectStorageClient, bucket string) *ArchiveSink {
	return &ArchiveSink{storage: storage, bucket: bucket}
}

func (a *ArchiveSink) Name() string { return "archive" }

// ObjectName is <yyyy-mm-dd>/<type>-<unix seconds>-<attempt id>.png.
func ObjectName(s models.Submission) string {
	ts := s.Attempt.Timestamp
	return fmt.Sprintf("%s/%s-%d-%s.png", ts.Format("2006-01-02"), s.Attempt.Kind, ts.Unix(), s.Attempt.ID)
}

func (a *ArchiveSink) Submit(ctx context.Context, s models.Submission) (Ack, error) {
	name := ObjectName(s)
	ack := Ack{Sink: a.Name(), Reference: name}

	data := s.PhotoPNG
	if len(data) == 0 {
		if s.Attempt.PhotoURL == "" {
			return ack, fmt.Errorf("%w: submission carries no photo", ErrRejected)
		}
		raw, err := camera.DecodePNGDataURL(s.Attempt.PhotoURL)
		if err != nil {
			return ack, fmt.Errorf("%w: %w", ErrRejected, err)
		}
		data = raw
	}

	if _, err := a.storage.PutObject(ctx, a.bucket, name, data, "image/png"); err != nil {
		return ack, err
	}
	return ack, nil
}
