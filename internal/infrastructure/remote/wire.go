package remote

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type subscriptionRequest struct {
	Subscription string `json:"subscription"`
	Action       string `json:"action"`
}

type filtersRequest struct {
	Filters []string `json:"filters"`
}

// reportRequest is the form the report endpoint expects.
type reportRequest struct {
	StartDate     string `json:"fechaInicio"`
	EndDate       string `json:"fechaFin"`
	Creation      bool   `json:"tipoCreacion"`
	Relocation    bool   `json:"tipoCambioSede"`
	Growth        bool   `json:"tipoCrecimiento"`
	Other         bool   `json:"tipoOtro"`
	IncludeCharts bool   `json:"incluirGraficos"`
	DeliveryEmail string `json:"mail"`
	Notes         string `json:"message"`
}

func newReportRequest(req domain.ReportRequest) reportRequest {
	return reportRequest{
		StartDate:     strings.TrimSpace(req.StartDate),
		EndDate:       strings.TrimSpace(req.EndDate),
		Creation:      req.Has(domain.CategoryCreation),
		Relocation:    req.Has(domain.CategoryRelocation),
		Growth:        req.Has(domain.CategoryGrowth),
		Other:         req.Has(domain.CategoryOther),
		IncludeCharts: req.IncludeCharts,
		DeliveryEmail: req.DeliveryEmail,
		Notes:         req.Notes,
	}
}

// newsDate accepts the timestamp shapes the server emits, with or without
// a zone, or a bare date.
type newsDate time.Time

var newsDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	domain.DateLayout,
}

func (d *newsDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil || s == "" {
		return nil
	}
	for _, layout := range newsDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			*d = newsDate(t)
			return nil
		}
	}
	return nil
}

type newsItem struct {
	ID       string   `json:"id"`
	Company  string   `json:"company"`
	Title    string   `json:"title"`
	Topic    string   `json:"topic"`
	Date     newsDate `json:"date"`
	Location string   `json:"location"`
	Region   string   `json:"region"`
	URL      string   `json:"url"`
	Details  string   `json:"details"`
}

func (n newsItem) toDomain() domain.NewsItem {
	return domain.NewsItem{
		ID:       n.ID,
		Company:  n.Company,
		Title:    n.Title,
		Topic:    n.Topic,
		Date:     time.Time(n.Date),
		Location: n.Location,
		Region:   n.Region,
		URL:      n.URL,
		Details:  n.Details,
	}
}
