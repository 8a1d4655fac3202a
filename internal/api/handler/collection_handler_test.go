package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func TestCollectionHandler_List(t *testing.T) {
	coll := &stubCollection{name: "subscriptions"}
	h := NewCollectionHandler(coll)

	c, rec := newContext(http.MethodGet, "/v1/subscriptions", "")
	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if coll.lastOp != "refresh" {
		t.Fatalf("list must refresh from the server")
	}
	var resp collectionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Collection != "subscriptions" || resp.Items == nil || len(resp.Items) != 0 {
		t.Fatalf("expected empty item list, got %+v", resp)
	}
}

func TestCollectionHandler_Mutations(t *testing.T) {
	cases := []struct {
		name   string
		method string
		target string
		body   string
		param  string
		wantOp string
	}{
		{name: "add", method: http.MethodPost, target: "/v1/filters", body: `{"item":"creation"}`, wantOp: "add"},
		{name: "remove", method: http.MethodDelete, target: "/v1/filters/creation", param: "creation", wantOp: "remove"},
		{name: "toggle escaped", method: http.MethodPost, target: "/v1/filters/Acme%20Corp/toggle", param: "Acme%20Corp", wantOp: "toggle"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			coll := &stubCollection{name: "filters", items: []string{"creation"}}
			h := NewCollectionHandler(coll)
			c, rec := newContext(tc.method, tc.target, tc.body)
			if tc.param != "" {
				c.SetParamNames("item")
				c.SetParamValues(tc.param)
			}

			var err error
			switch tc.wantOp {
			case "add":
				err = h.Add(c)
			case "remove":
				err = h.Remove(c)
			case "toggle":
				err = h.Toggle(c)
			}
			if err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusOK || coll.lastOp != tc.wantOp {
				t.Fatalf("expected %s with 200, got %s %d", tc.wantOp, coll.lastOp, rec.Code)
			}
			if tc.wantOp == "toggle" && coll.lastItem != "Acme Corp" {
				t.Fatalf("path item not unescaped: %q", coll.lastItem)
			}
		})
	}
}

func TestCollectionHandler_AddRequiresItem(t *testing.T) {
	coll := &stubCollection{name: "filters"}
	c, _ := newContext(http.MethodPost, "/v1/filters", `{}`)
	err := NewCollectionHandler(coll).Add(c)
	var ve *domain.ValidationError
	if !asValidation(err, &ve) || coll.lastOp != "" {
		t.Fatalf("expected validation error before any mutation, got %v", err)
	}
}

func TestCollectionHandler_PropagatesExpiry(t *testing.T) {
	coll := &stubCollection{name: "subscriptions", err: domain.ErrAuthExpired}
	c, _ := newContext(http.MethodPost, "/v1/subscriptions", `{"item":"Acme"}`)
	if err := NewCollectionHandler(coll).Add(c); err != domain.ErrAuthExpired {
		t.Fatalf("expected ErrAuthExpired, got %v", err)
	}
}
