package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

type ReportHandler struct {
	reports ports.ReportService
}

func NewReportHandler(reports ports.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Create submits a report request. With download=true a file answer is
// streamed back as an attachment instead of described in JSON.
//
// @Summary      Generate report
// @Tags         reports
// @Accept       json
// @Produce      json,application/pdf
// @Param        download  query     bool                  false  "Stream the PDF"
// @Param        body      body      domain.ReportRequest  true   "Report request"
// @Success      200       {object}  domain.ReportResult
// @Failure      401       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /reports [post]
func (h *ReportHandler) Create(c echo.Context) error {
	var req domain.ReportRequest
	if err := c.Bind(&req); err != nil {
		return &domain.ValidationError{Code: "invalid_payload", Message: "invalid payload"}
	}

	res, err := h.reports.Submit(c.Request().Context(), req)
	if err != nil {
		metrics.ReportsTotal.WithLabelValues("error").Inc()
		return err
	}
	metrics.ReportsTotal.WithLabelValues(string(res.Delivery)).Inc()

	download, _ := strconv.ParseBool(c.QueryParam("download"))
	if download && res.File != nil {
		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.File.Name))
		return c.Blob(http.StatusOK, res.File.ContentType, res.File.Data)
	}
	return c.JSON(http.StatusOK, res)
}
