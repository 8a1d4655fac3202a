package sink

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/storage"
	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

const gcsPrefix = "reports/"

// GCS uploads report files to a Cloud Storage bucket under reports/.
type GCS struct {
	client *storage.Client
	bucket string
	log    zerolog.Logger
}

func NewGCS(client *storage.Client, bucket string, log zerolog.Logger) ports.ReportSink {
	return &GCS{client: client, bucket: bucket, log: log}
}

// Save uploads file with a small retry budget and returns its gs:// URL.
func (g *GCS) Save(ctx context.Context, file *domain.ReportFile) (string, error) {
	key := gcsPrefix + file.Name

	err := retry.Do(
		func() error {
			w := g.client.Bucket(g.bucket).Object(key).NewWriter(ctx)
			w.ContentType = file.ContentType
			w.Metadata = map[string]string{"created_at": file.CreatedAt.UTC().Format(time.RFC3339)}
			if _, writeErr := w.Write(file.Data); writeErr != nil {
				if closeErr := w.Close(); closeErr != nil {
					g.log.Warn().Err(closeErr).Msg("failed to close writer after error")
				}
				return fmt.Errorf("write to storage: %w", writeErr)
			}
			if closeErr := w.Close(); closeErr != nil {
				return fmt.Errorf("close storage writer: %w", closeErr)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			g.log.Info().Err(err).Uint("attempt", n+1).Str("key", key).Msg("retrying report upload")
		}),
	)
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", file.Name, err)
	}
	return fmt.Sprintf("gs://%s/%s", g.bucket, key), nil
}
