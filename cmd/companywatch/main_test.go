package main

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/notastartupanymore/companywatch/internal/core/domain"
)

func TestHTMLText(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "  Acme   opens\na new plant ", "Acme opens a new plant"},
		{"paragraphs", "<p>Acme <b>expands</b></p><p>to Lyon</p>", "Acme expands to Lyon"},
		{"list", "<ul><li>one</li><li>two</li></ul>", "one two"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := htmlText(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestParseCategories(t *testing.T) {
	got := parseCategories(" Creation, ,growth,")
	want := []domain.Category{domain.CategoryCreation, domain.CategoryGrowth}
	if !slices.Equal(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if parseCategories("") != nil {
		t.Fatalf("expected no categories for empty input")
	}
}

func TestPrintNews(t *testing.T) {
	var buf bytes.Buffer
	items := []domain.NewsItem{{
		Company: "Acme",
		Topic:   "growth",
		Title:   "Acme hires",
		Date:    time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
		Details: "<p>200 <i>new</i> jobs</p>",
	}}
	if err := printNews(&buf, items, true); err != nil {
		t.Fatalf("printNews returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "2024-03-05") || !strings.Contains(out, "Acme hires") || !strings.Contains(out, "200 new jobs") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run(context.Background(), []string{"frobnicate"}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "frobnicate") {
		t.Fatalf("expected unknown command error, got %v", err)
	}
	if !strings.Contains(stderr.String(), "usage:") {
		t.Fatalf("expected usage on stderr")
	}
}

func TestRun_Help(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if err := run(context.Background(), nil, &stdout, &stderr); err != nil {
		t.Fatalf("help returned error: %v", err)
	}
	for name := range commands {
		if !strings.Contains(stderr.String(), name) {
			t.Fatalf("usage does not list %q", name)
		}
	}
}
