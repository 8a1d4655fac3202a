package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

type FeedHandler struct {
	feed ports.FeedService
}

func NewFeedHandler(feed ports.FeedService) *FeedHandler {
	return &FeedHandler{feed: feed}
}

// News lists every news item.
//
// @Summary      News
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.NewsItem
// @Failure      503  {object}  map[string]string
// @Router       /news [get]
func (h *FeedHandler) News(c echo.Context) error {
	items, err := h.feed.News(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

// Interesting lists news matching the user's subscriptions.
//
// @Summary      Interesting news
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.NewsItem
// @Failure      401  {object}  map[string]string
// @Router       /news/interesting [get]
func (h *FeedHandler) Interesting(c echo.Context) error {
	items, err := h.feed.Interesting(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

// Filtered lists news matching the active filters.
//
// @Summary      Filtered news
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.NewsItem
// @Router       /news/filtered [get]
func (h *FeedHandler) Filtered(c echo.Context) error {
	items, err := h.feed.Filtered(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

// Companies lists tracked companies.
//
// @Summary      Companies
// @Tags         feed
// @Produce      json
// @Success      200  {array}   domain.Company
// @Router       /companies [get]
func (h *FeedHandler) Companies(c echo.Context) error {
	items, err := h.feed.Companies(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(items))
}

// FilterLabels lists the filters a user can choose from.
//
// @Summary      Available filters
// @Tags         feed
// @Produce      json
// @Success      200  {array}   string
// @Router       /filter-labels [get]
func (h *FeedHandler) FilterLabels(c echo.Context) error {
	labels, err := h.feed.FilterLabels(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(labels))
}

// Chart returns one chart series. Missing parameters take the defaults of
// a fresh chart view.
//
// @Summary      Chart data
// @Tags         feed
// @Produce      json
// @Param        dataType     query     string  false  "empresasCreadas or crecimientoEmpleados"
// @Param        companyType  query     string  false  "todos or tecnologia"
// @Param        timePeriod   query     string  false  "time period"
// @Success      200          {array}   domain.ChartPoint
// @Failure      401          {object}  map[string]string
// @Router       /charts [get]
func (h *FeedHandler) Chart(c echo.Context) error {
	q := domain.DefaultChartQuery()
	if v := c.QueryParam("dataType"); v != "" {
		q.DataType = v
	}
	if v := c.QueryParam("companyType"); v != "" {
		q.CompanyType = v
	}
	if v := c.QueryParam("timePeriod"); v != "" {
		q.TimePeriod = v
	}

	points, err := h.feed.Chart(c.Request().Context(), q)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(points))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
