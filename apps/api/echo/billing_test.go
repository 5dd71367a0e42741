package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/dvergarav/acuademia/core/billing"
	testutil "github.com/dvergarav/acuademia/tests"
)

func Test_billingApi_charges(t *testing.T) {
	ts := newTestServer(t)
	staffToken := ts.staffToken(t)

	charge := testutil.CreateCharge(t, ts.billingRepo, "ath1", "per1", "con1", 50)

	tests := []httpTest{
		{
			name: "auth required", path: "/v1/billing/charges?athlete_id=ath1",
			wantCode: http.StatusUnauthorized, wantData: marshallObj(t, errMissingToken),
		},
		{
			name: "athlete_id required", path: "/v1/billing/charges", token: staffToken,
			wantCode: http.StatusBadRequest, wantData: marshallObj(t, httpErr{Error: "athlete_id is required"}),
		},
		{
			name: "by athlete", path: "/v1/billing/charges?athlete_id=ath1", token: staffToken,
			wantCode: http.StatusOK, wantData: marshallList(t, charge),
		},
		{
			name: "by athlete (none)", path: "/v1/billing/charges?athlete_id=ath2", token: staffToken,
			wantCode: http.StatusOK, wantData: []byte(`[]`),
		},
		{
			name: "create", method: http.MethodPost, path: "/v1/billing/charges", token: staffToken,
			body:     marshallObj(t, billing.NewCharge{AthleteID: "ath1", PeriodID: "per1", ConceptID: "con1", Total: 60}),
			wantCode: http.StatusCreated,
		},
		{
			name: "create without total", method: http.MethodPost, path: "/v1/billing/charges", token: staffToken,
			body:     marshallObj(t, billing.NewCharge{AthleteID: "ath1", PeriodID: "per1", ConceptID: "con1"}),
			wantCode: http.StatusBadRequest,
		},
	}
	runTable(t, ts, tests)
}

func Test_billingApi_payments(t *testing.T) {
	ts := newTestServer(t)
	staffToken := ts.staffToken(t)

	charge := testutil.CreateCharge(t, ts.billingRepo, "ath1", "per1", "con1", 50)

	payment := billing.NewPayment{
		ChargeID:   charge.ID,
		Amount:     50,
		Currency:   billing.CurrencyUSD,
		Method:     billing.MethodTransfer,
		Reference:  "REF-100",
		PaidAt:     "2026-03-05T00:00:00Z",
		CoverageTo: "2026-04-05T00:00:00Z",
	}

	badMethod := payment
	badMethod.Method = "cheque"

	unknownCharge := payment
	unknownCharge.ChargeID = "missing"

	tests := []httpTest{
		{
			name: "bad method", method: http.MethodPost, path: "/v1/billing/payments", token: staffToken,
			body: marshallObj(t, badMethod), wantCode: http.StatusBadRequest,
		},
		{
			name: "unknown charge", method: http.MethodPost, path: "/v1/billing/payments", token: staffToken,
			body: marshallObj(t, unknownCharge), wantCode: http.StatusNotFound,
			wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	runTable(t, ts, tests)

	t.Run("record ok settles the charge", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/payments", staffToken, marshallObj(t, payment))
		ts.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var p billing.Payment
		if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
			t.Fatalf("unmarshalling Payment: %v", err)
		}
		if p.ChargeID.String != charge.ID {
			t.Errorf("failed! chargeID = %v", p.ChargeID.String)
		}

		got, err := ts.billingRepo.GetChargeByID(req.Context(), charge.ID)
		if err != nil {
			t.Fatalf("GetChargeByID(): %v", err)
		}
		if got.Status != billing.StatusPaid {
			t.Errorf("failed! status = %v", got.Status)
		}
	})

	t.Run("settled charge refuses more payments", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/billing/payments", staffToken, marshallObj(t, payment))
		ts.app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
	})
}

func Test_billingApi_voidCharge(t *testing.T) {
	ts := newTestServer(t)
	adminToken := ts.adminToken(t)
	staffToken := ts.staffToken(t)

	charge := testutil.CreateCharge(t, ts.billingRepo, "ath1", "per1", "con1", 50)
	path := "/v1/billing/charges/" + charge.ID + "/void"

	tests := []httpTest{
		{
			name: "admin required", method: http.MethodPost, path: path, token: staffToken,
			wantCode: http.StatusForbidden, wantData: marshallObj(t, httpErr{Error: "permission denied"}),
		},
		{
			name: "void ok", method: http.MethodPost, path: path, token: adminToken,
			wantCode: http.StatusOK, wantData: marshallObj(t, SuccessResponse{Success: "charge voided"}),
		},
		{
			name: "not found", method: http.MethodPost, path: "/v1/billing/charges/missing/void", token: adminToken,
			wantCode: http.StatusNotFound, wantData: marshallObj(t, httpErr{Error: "not found"}),
		},
	}
	runTable(t, ts, tests)
}

func Test_billingApi_debtReport(t *testing.T) {
	ts := newTestServer(t)
	staffToken := ts.staffToken(t)

	ts.db.SeedConcept(billing.Concept{Name: "Mensualidad", Type: "mensual"})
	ts.db.SeedPeriod(billing.Period{Label: "2026-03"})

	owing := testutil.CreateCharge(t, ts.billingRepo, "ath1", "per1", "con1", 50)
	testutil.CreateCharge(t, ts.billingRepo, "ath2", "per2", "con1", 40)

	t.Run("filters", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/billing/debt-report?period_id=per1&only_owing=true", staffToken)
		ts.app.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var rows []billing.DebtReportRow
		if err := json.Unmarshal(rec.Body.Bytes(), &rows); err != nil {
			t.Fatalf("unmarshalling rows: %v", err)
		}
		if len(rows) != 1 || rows[0].ChargeID != owing.ID || rows[0].Balance != 50 {
			t.Errorf("failed! rows = %+v", rows)
		}
	})

	t.Run("catalogs", func(t *testing.T) {
		for _, path := range []string{"/v1/billing/concepts", "/v1/billing/periods"} {
			req, rec := newAuthRequest(http.MethodGet, path, staffToken)
			ts.app.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("failed! %s code = %v; body = %v", path, rec.Code, rec.Body.String())
			}
			var items []json.RawMessage
			if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
				t.Fatalf("unmarshalling %s: %v", path, err)
			}
			if len(items) != 1 {
				t.Errorf("failed! %s items = %v", path, len(items))
			}
		}
	})
}
