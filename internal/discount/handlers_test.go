package discount_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/threadline/workwear-api/internal/discount"
)

func previewBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]map[string]any {
	t.Helper()
	var body map[string]map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func doPreview(t *testing.T, payload string) *httptest.ResponseRecorder {
	t.Helper()
	handler := &discount.Handler{Catalog: discount.DefaultCatalog()}
	req := httptest.NewRequest(http.MethodPost, "/discounts/preview", strings.NewReader(payload))
	rr := httptest.NewRecorder()
	handler.Preview(rr, req)
	return rr
}

func TestPreviewPercentage(t *testing.T) {
	rr := doPreview(t, `{"code":"WELCOME10","subtotal":"100.00","shipping_cost":"5.99"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := previewBody(t, rr)["data"]
	if data["discount_amount"] != "10.00" {
		t.Fatalf("expected discount 10.00, got %v", data["discount_amount"])
	}
	if data["final_total"] != "95.99" {
		t.Fatalf("expected final total 95.99, got %v", data["final_total"])
	}
}

func TestPreviewFreeShipping(t *testing.T) {
	rr := doPreview(t, `{"code":"FREESHIP","subtotal":"80.00","shipping_cost":"5.99"}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
	data := previewBody(t, rr)["data"]
	if data["shipping_discount"] != "5.99" {
		t.Fatalf("expected shipping discount 5.99, got %v", data["shipping_discount"])
	}
	if data["final_total"] != "80.00" {
		t.Fatalf("expected final total 80.00, got %v", data["final_total"])
	}
}

func TestPreviewUnknownCode(t *testing.T) {
	rr := doPreview(t, `{"code":"BOGUS","subtotal":"100.00"}`)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
	body := previewBody(t, rr)
	if body["error"]["code"] != "UNKNOWN_CODE" {
		t.Fatalf("unexpected error code %v", body["error"]["code"])
	}
}

func TestPreviewEmptyCode(t *testing.T) {
	rr := doPreview(t, `{"code":"  ","subtotal":"100.00"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPreviewSubtotalTooLow(t *testing.T) {
	rr := doPreview(t, `{"code":"BULK25","subtotal":"149.99"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rr.Code)
	}
	body := previewBody(t, rr)
	msg, _ := body["error"]["message"].(string)
	if !strings.Contains(msg, "150.00") {
		t.Fatalf("error message should state the minimum, got %q", msg)
	}
}

func TestPreviewBadSubtotal(t *testing.T) {
	rr := doPreview(t, `{"code":"WELCOME10","subtotal":"-1"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestListCodes(t *testing.T) {
	handler := &discount.Handler{Catalog: discount.DefaultCatalog()}
	req := httptest.NewRequest(http.MethodGet, "/discounts", nil)
	rr := httptest.NewRecorder()
	handler.List(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var body map[string][]map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(body["data"]) != 5 {
		t.Fatalf("expected 5 codes, got %d", len(body["data"]))
	}
	if body["data"][0]["code"] != "BULK25" {
		t.Fatalf("expected sorted output starting with BULK25, got %v", body["data"][0]["code"])
	}
}
