package handler

import (
	"context"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
)

// CollectionHandler exposes one collection (subscriptions or filters).
type CollectionHandler struct {
	collection ports.CollectionService
}

func NewCollectionHandler(collection ports.CollectionService) *CollectionHandler {
	return &CollectionHandler{collection: collection}
}

type itemRequest struct {
	Item string `json:"item" validate:"required"`
}

type collectionResponse struct {
	Collection string   `json:"collection"`
	Items      []string `json:"items"`
}

func (h *CollectionHandler) respond(c echo.Context, items []string) error {
	if items == nil {
		items = []string{}
	}
	return c.JSON(http.StatusOK, collectionResponse{Collection: h.collection.Name(), Items: items})
}

// List reloads the set from the server.
//
// @Summary      List subscriptions or filters
// @Tags         collections
// @Produce      json
// @Param        collection  path      string  true  "subscriptions or filters"
// @Success      200         {object}  collectionResponse
// @Failure      401         {object}  map[string]string
// @Router       /{collection} [get]
func (h *CollectionHandler) List(c echo.Context) error {
	items, err := h.collection.Refresh(c.Request().Context())
	if err != nil {
		return err
	}
	return h.respond(c, items)
}

// Add inserts an item; adding a present item is a no-op.
//
// @Summary      Add an item
// @Tags         collections
// @Accept       json
// @Produce      json
// @Param        collection  path      string       true  "subscriptions or filters"
// @Param        body        body      itemRequest  true  "Item"
// @Success      200         {object}  collectionResponse
// @Failure      401         {object}  map[string]string
// @Failure      422         {object}  map[string]string
// @Router       /{collection} [post]
func (h *CollectionHandler) Add(c echo.Context) error {
	var req itemRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	return h.mutate(c, h.collection.Add, req.Item)
}

// Remove deletes an item.
//
// @Summary      Remove an item
// @Tags         collections
// @Produce      json
// @Param        collection  path      string  true  "subscriptions or filters"
// @Param        item        path      string  true  "Item"
// @Success      200         {object}  collectionResponse
// @Failure      401         {object}  map[string]string
// @Router       /{collection}/{item} [delete]
func (h *CollectionHandler) Remove(c echo.Context) error {
	return h.mutate(c, h.collection.Remove, pathItem(c))
}

// Toggle flips membership of an item.
//
// @Summary      Toggle an item
// @Tags         collections
// @Produce      json
// @Param        collection  path      string  true  "subscriptions or filters"
// @Param        item        path      string  true  "Item"
// @Success      200         {object}  collectionResponse
// @Failure      401         {object}  map[string]string
// @Router       /{collection}/{item}/toggle [post]
func (h *CollectionHandler) Toggle(c echo.Context) error {
	return h.mutate(c, h.collection.Toggle, pathItem(c))
}

func (h *CollectionHandler) mutate(c echo.Context, op func(context.Context, string) ([]string, error), item string) error {
	items, err := op(c.Request().Context(), item)
	if err != nil {
		metrics.CollectionMutationsTotal.WithLabelValues(h.collection.Name(), "error").Inc()
		return err
	}
	metrics.CollectionMutationsTotal.WithLabelValues(h.collection.Name(), "ok").Inc()
	return h.respond(c, items)
}

func pathItem(c echo.Context) string {
	raw := c.Param("item")
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
