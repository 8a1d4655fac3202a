package mongo

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

const reportBucket = "reports"

// ReportArchive implements ports.ReportSink by storing report files in a
// GridFS bucket named "reports".
type ReportArchive struct {
	bucket *gridfs.Bucket
}

// NewReportArchive creates a ReportArchive on db.
func NewReportArchive(db *mongo.Database) (ports.ReportSink, error) {
	bucket, err := gridfs.NewBucket(db, options.GridFSBucket().SetName(reportBucket))
	if err != nil {
		return nil, fmt.Errorf("gridfs bucket: %w", err)
	}
	return &ReportArchive{bucket: bucket}, nil
}

// reportMetadata is stored alongside each GridFS file.
type reportMetadata struct {
	ContentType string    `bson:"content_type"`
	CreatedAt   time.Time `bson:"created_at"`
}

// Save uploads file and returns a gridfs://reports/<id> location.
func (a *ReportArchive) Save(ctx context.Context, file *domain.ReportFile) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := a.bucket.SetWriteDeadline(deadline); err != nil {
			return "", fmt.Errorf("gridfs deadline: %w", err)
		}
	}

	meta, err := bson.Marshal(reportMetadata{
		ContentType: file.ContentType,
		CreatedAt:   file.CreatedAt.UTC(),
	})
	if err != nil {
		return "", fmt.Errorf("encode report metadata: %w", err)
	}

	id, err := a.bucket.UploadFromStream(
		file.Name,
		bytes.NewReader(file.Data),
		options.GridFSUpload().SetMetadata(bson.Raw(meta)),
	)
	if err != nil {
		return "", fmt.Errorf("upload report %s: %w", file.Name, err)
	}
	return location(id), nil
}

func location(id primitive.ObjectID) string {
	return fmt.Sprintf("gridfs://%s/%s", reportBucket, id.Hex())
}
