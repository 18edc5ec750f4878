package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
)

func TestPlanHandler_List(t *testing.T) {
	c, rec := newTestContext(http.MethodGet, "/v1/plans", "", nil)

	if err := NewPlanHandler().List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp planListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(resp.Plans) != 3 {
		t.Fatalf("expected 3 plans, got %d", len(resp.Plans))
	}
	premium := resp.Plans[1]
	if premium.Code != "premium" || !premium.Popular || !strings.Contains(premium.MonthlyPrice, "79,00") || premium.MonthlyCents != 7900 {
		t.Fatalf("unexpected premium plan: %+v", premium)
	}
}
