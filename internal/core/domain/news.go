package domain

import "time"

// NewsItem is a read-only projection of a tracked news article.
type NewsItem struct {
	ID       string    `json:"id"`
	Company  string    `json:"company"`
	Title    string    `json:"title"`
	Topic    string    `json:"topic"`
	Date     time.Time `json:"date"`
	Location string    `json:"location"`
	Region   string    `json:"region"`
	URL      string    `json:"url"`
	Details  string    `json:"details"`
}

// Company is a read-only projection of a tracked company.
type Company struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Details string `json:"details"`
}

// ChartQuery selects an aggregated chart series.
type ChartQuery struct {
	DataType    string `json:"dataType" query:"dataType" validate:"required"`
	CompanyType string `json:"companyType" query:"companyType" validate:"required"`
	TimePeriod  string `json:"timePeriod" query:"timePeriod" validate:"required"`
}

// DefaultChartQuery mirrors the selection a fresh chart view starts with.
func DefaultChartQuery() ChartQuery {
	return ChartQuery{DataType: "empresasCreadas", CompanyType: "todos", TimePeriod: "ultimoAno"}
}

// ChartPoint is one bar of a chart series.
type ChartPoint struct {
	Label string `json:"label"`
	Value int    `json:"value"`
}
