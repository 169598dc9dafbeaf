package customization_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/threadline/workwear-api/internal/customization"
)

func doQuote(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()
	handler := customization.NewHandler(decimal.RequireFromString("2.50"))
	req := httptest.NewRequest(http.MethodPost, "/customization/quote", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	handler.Quote(rr, req)
	return rr
}

func quoteData(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body["data"]
}

func TestQuoteBundleEmbroidery(t *testing.T) {
	rr := doQuote(t, `{
		"method": "embroidery",
		"setup_option": "1_to_10_items_15_fee",
		"is_bundle": true,
		"bundle_item_count": 6,
		"placements": ["left_chest", "large_back"],
		"additional_logo_count": 2
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := quoteData(t, rr)
	if data["setup_fee"] != "15.00" {
		t.Fatalf("expected setup fee 15.00, got %v", data["setup_fee"])
	}
	if data["additional_logo_fee"] != "5.00" {
		t.Fatalf("expected additional logo fee 5.00, got %v", data["additional_logo_fee"])
	}
	// 15.00 setup + 0 left chest + 48.00 large back + 5.00 additional logos.
	if data["total_cost"] != "68.00" {
		t.Fatalf("expected total 68.00, got %v", data["total_cost"])
	}
	placements, _ := data["placements"].([]any)
	if len(placements) != 2 {
		t.Fatalf("expected 2 placements, got %d", len(placements))
	}
	first, _ := placements[0].(map[string]any)
	if first["cost"] != "0.00" {
		t.Fatalf("bundle left chest should cost 0.00, got %v", first["cost"])
	}
}

func TestQuoteSingleItemPrint(t *testing.T) {
	rr := doQuote(t, `{
		"method": "print",
		"setup_option": "1_to_10_items_15_fee",
		"placements": ["left_chest"]
	}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := quoteData(t, rr)
	if data["setup_fee"] != "0.00" {
		t.Fatalf("print should never carry a setup fee, got %v", data["setup_fee"])
	}
	if data["total_cost"] != "3.00" {
		t.Fatalf("expected total 3.00, got %v", data["total_cost"])
	}
}

func TestQuoteUnknownPosition(t *testing.T) {
	rr := doQuote(t, `{"method": "print", "placements": ["collar"]}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
}

func TestQuoteInvalidMethod(t *testing.T) {
	rr := doQuote(t, `{"method": "glue", "placements": ["left_chest"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestQuoteBundleRequiresItemCount(t *testing.T) {
	rr := doQuote(t, `{"method": "print", "is_bundle": true, "placements": ["large_front"]}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}
