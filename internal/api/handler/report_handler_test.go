package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func pdfResult() *domain.ReportResult {
	file := &domain.ReportFile{Name: "report_20240305_140709.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7")}
	return &domain.ReportResult{Delivery: domain.DeliveryFile, File: file, FileName: file.Name, Location: "/tmp/" + file.Name}
}

func TestReportHandler_BindsRequest(t *testing.T) {
	var got domain.ReportRequest
	h := NewReportHandler(&stubReports{
		submitFn: func(_ context.Context, req domain.ReportRequest) (*domain.ReportResult, error) {
			got = req
			return pdfResult(), nil
		},
	})

	body := `{"start_date":"2024-01-01","end_date":"2024-02-01","categories":["creation","growth"],"include_charts":true}`
	c, rec := newContext(http.MethodPost, "/v1/reports", body)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.StartDate != "2024-01-01" || !got.Has(domain.CategoryGrowth) || !got.IncludeCharts {
		t.Fatalf("unexpected request %+v", got)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["delivery"] != "file" || resp["file_name"] != "report_20240305_140709.pdf" {
		t.Fatalf("unexpected response %v", resp)
	}
	if _, leaked := resp["File"]; leaked {
		t.Fatalf("file bytes must not be serialised")
	}
}

func TestReportHandler_Download(t *testing.T) {
	h := NewReportHandler(&stubReports{
		submitFn: func(context.Context, domain.ReportRequest) (*domain.ReportResult, error) {
			return pdfResult(), nil
		},
	})

	c, rec := newContext(http.MethodPost, "/v1/reports?download=true", `{"start_date":"2024-01-01"}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Header().Get("Content-Type") != "application/pdf" || rec.Body.String() != "%PDF-1.7" {
		t.Fatalf("expected pdf body, got %q %q", rec.Header().Get("Content-Type"), rec.Body.String())
	}
	if cd := rec.Header().Get("Content-Disposition"); cd != `attachment; filename="report_20240305_140709.pdf"` {
		t.Fatalf("unexpected disposition %q", cd)
	}
}

func TestReportHandler_EmailAckIgnoresDownload(t *testing.T) {
	h := NewReportHandler(&stubReports{
		submitFn: func(context.Context, domain.ReportRequest) (*domain.ReportResult, error) {
			return &domain.ReportResult{Delivery: domain.DeliveryEmail, Message: "sent"}, nil
		},
	})

	c, rec := newContext(http.MethodPost, "/v1/reports?download=true", `{}`)
	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || resp["message"] != "sent" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
}

func TestReportHandler_ValidationError(t *testing.T) {
	h := NewReportHandler(&stubReports{
		submitFn: func(context.Context, domain.ReportRequest) (*domain.ReportResult, error) {
			return nil, domain.ErrNoCategorySelected
		},
	})
	c, _ := newContext(http.MethodPost, "/v1/reports", `{"start_date":"2024-01-01","end_date":"2024-02-01"}`)
	if err := h.Create(c); err != domain.ErrNoCategorySelected {
		t.Fatalf("expected ErrNoCategorySelected, got %v", err)
	}
}
