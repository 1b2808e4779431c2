package core

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestInvoiceItemLineItem(t *testing.T) {
	it := InvoiceItem{ID: 7, InvoiceID: 3, Description: "Consulting", Quantity: 2, Price: 50, Tax: 10, Total: 110}
	got := it.LineItem()
	want := LineItem{Desc: "Consulting", Qty: 2, Price: 50, Tax: 10, Line: 110}
	if got != want {
		t.Fatalf("LineItem() = %+v, want %+v", got, want)
	}
}

func TestInvoiceItemTotalMismatch(t *testing.T) {
	cases := []struct {
		name string
		it   InvoiceItem
		want bool
	}{
		{"exact", InvoiceItem{Quantity: 3, Price: 1.5, Tax: 0.5, Total: 5}, false},
		{"rounding noise", InvoiceItem{Quantity: 3, Price: 0.1, Tax: 0, Total: 0.3}, false},
		{"wrong total", InvoiceItem{Quantity: 1, Price: 10, Tax: 2, Total: 10}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.it.TotalMismatch(); got != tc.want {
				t.Fatalf("TotalMismatch() = %v, want %v (expected %.4f)", got, tc.want, tc.it.ExpectedTotal())
			}
		})
	}
}

func TestNewInvoiceDetailEmptyItemsEncodeAsArray(t *testing.T) {
	d := NewInvoiceDetail(Invoice{ID: 1, Number: "F-1"}, nil)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(b), `"items":[]`) {
		t.Fatalf("expected empty items array, got %s", b)
	}
	if !strings.Contains(string(b), `"number":"F-1"`) {
		t.Fatalf("expected embedded invoice fields, got %s", b)
	}
}

func TestCutoffs(t *testing.T) {
	now := time.Date(2025, 10, 16, 15, 4, 5, 0, time.UTC)
	if got := RecentCutoff(now); got != "2025-09-16" {
		t.Fatalf("RecentCutoff = %s", got)
	}
	if got := RevenueCutoff(now); got != "2025-04-16" {
		t.Fatalf("RevenueCutoff = %s", got)
	}
}

func TestCutoffsUseUTCDate(t *testing.T) {
	// 01:00 on the 16th at UTC+5 is still the 15th in UTC.
	now := time.Date(2025, 10, 16, 1, 0, 0, 0, time.FixedZone("UTC+5", 5*3600))
	if got := RecentCutoff(now); got != "2025-09-15" {
		t.Fatalf("RecentCutoff = %s", got)
	}
	if got := RevenueCutoff(now); got != "2025-04-15" {
		t.Fatalf("RevenueCutoff = %s", got)
	}
}
