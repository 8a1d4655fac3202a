package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/core/validation"
)

const defaultAckMessage = "the report will be delivered by email"

// ReportBuilder validates report requests and submits them to the report
// endpoint. Files are handed to the sink when one is configured.
type ReportBuilder struct {
	api      ports.RemoteAPI
	session  ports.SessionService
	sink     ports.ReportSink
	validate *validator.Validate
	log      zerolog.Logger
	now      func() time.Time
}

// NewReportBuilder returns a ReportService. sink may be nil, in which case
// the file stays in the result for the caller to stream.
func NewReportBuilder(api ports.RemoteAPI, session ports.SessionService, sink ports.ReportSink, log zerolog.Logger) *ReportBuilder {
	return &ReportBuilder{
		api:      api,
		session:  session,
		sink:     sink,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

// Validate checks, in order: both dates present, at least one category,
// both dates parse as calendar dates, start not after end, and the
// optional fields.
func (b *ReportBuilder) Validate(req domain.ReportRequest) error {
	startRaw := strings.TrimSpace(req.StartDate)
	endRaw := strings.TrimSpace(req.EndDate)
	if startRaw == "" || endRaw == "" {
		return domain.ErrMissingDateRange
	}
	if len(req.Categories) == 0 {
		return domain.ErrNoCategorySelected
	}

	start, err := time.Parse(domain.DateLayout, startRaw)
	if err != nil {
		return domain.ErrInvalidDate
	}
	end, err := time.Parse(domain.DateLayout, endRaw)
	if err != nil {
		return domain.ErrInvalidDate
	}
	if start.After(end) {
		return domain.ErrInvertedDateRange
	}

	if err := b.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && ve[0].Field() == "DeliveryEmail" {
			return domain.ErrInvalidEmail
		}
		return validation.Struct(b.validate, req, "")
	}
	return nil
}

// Submit validates req and sends it. The delivery path is decided by the
// response content type, never by the request fields.
func (b *ReportBuilder) Submit(ctx context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
	if err := b.Validate(req); err != nil {
		return nil, err
	}

	var resp *ports.ReportResponse
	err := withToken(ctx, b.session, func(token string) error {
		var err error
		resp, err = b.api.GenerateReport(ctx, token, req)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("generate report: %w", err)
	}

	mediaType, _, _ := mime.ParseMediaType(resp.ContentType)
	switch mediaType {
	case "application/json":
		return b.acknowledged(resp.Body), nil
	case "application/pdf", "application/octet-stream", "":
		return b.download(ctx, resp)
	default:
		return nil, fmt.Errorf("generate report: unexpected content type %q: %w", resp.ContentType, domain.ErrServerRejected)
	}
}

func (b *ReportBuilder) acknowledged(body []byte) *domain.ReportResult {
	var ack struct {
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	msg := defaultAckMessage
	if err := json.Unmarshal(body, &ack); err == nil {
		if ack.Message != "" {
			msg = ack.Message
		} else if ack.Detail != "" {
			msg = ack.Detail
		}
	}
	b.log.Info().Str("delivery", string(domain.DeliveryEmail)).Msg("report accepted for email delivery")
	return &domain.ReportResult{Delivery: domain.DeliveryEmail, Message: msg}
}

func (b *ReportBuilder) download(ctx context.Context, resp *ports.ReportResponse) (*domain.ReportResult, error) {
	now := b.now()
	contentType := resp.ContentType
	if contentType == "" {
		contentType = "application/pdf"
	}
	file := &domain.ReportFile{
		Name:        ReportFileName(now),
		ContentType: contentType,
		Data:        resp.Body,
		CreatedAt:   now,
	}
	result := &domain.ReportResult{Delivery: domain.DeliveryFile, File: file, FileName: file.Name}

	if b.sink != nil {
		loc, err := b.sink.Save(ctx, file)
		if err != nil {
			return nil, fmt.Errorf("store report %s: %w", file.Name, err)
		}
		result.Location = loc
	}

	b.log.Info().
		Str("delivery", string(domain.DeliveryFile)).
		Str("file", file.Name).
		Int("bytes", len(file.Data)).
		Str("location", result.Location).
		Msg("report downloaded")
	return result, nil
}

// ReportFileName is the download name for a report generated at t.
func ReportFileName(t time.Time) string {
	return fmt.Sprintf("report_%s.pdf", t.Format("20060102_150405"))
}
