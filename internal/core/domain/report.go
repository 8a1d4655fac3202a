package domain

import "time"

// Category is a news category a report can be restricted to.
type Category string

const (
	CategoryCreation   Category = "creation"
	CategoryRelocation Category = "relocation"
	CategoryGrowth     Category = "growth"
	CategoryOther      Category = "other"
)

// DateLayout is the calendar date format used by report ranges.
const DateLayout = "2006-01-02"

// ReportRequest is built client-side, validated, submitted once and discarded.
type ReportRequest struct {
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	Categories    []Category `json:"categories" validate:"dive,oneof=creation relocation growth other"`
	IncludeCharts bool       `json:"include_charts"`
	DeliveryEmail string     `json:"delivery_email" validate:"omitempty,email"`
	Notes         string     `json:"notes"`
}

// Has reports whether c is among the selected categories.
func (r ReportRequest) Has(c Category) bool {
	for _, sel := range r.Categories {
		if sel == c {
			return true
		}
	}
	return false
}

// ReportDelivery tells how the server chose to deliver a report.
type ReportDelivery string

const (
	DeliveryFile  ReportDelivery = "file"
	DeliveryEmail ReportDelivery = "email"
)

// ReportFile is a generated report body ready to be stored.
type ReportFile struct {
	Name        string
	ContentType string
	Data        []byte
	CreatedAt   time.Time
}

// ReportResult is the outcome of a successful submission. Location is set
// once a file has been handed to a sink.
type ReportResult struct {
	Delivery ReportDelivery `json:"delivery"`
	File     *ReportFile    `json:"-"`
	FileName string         `json:"file_name,omitempty"`
	Location string         `json:"location,omitempty"`
	Message  string         `json:"message,omitempty"`
}
