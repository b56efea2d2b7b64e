package mockd

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lanfinitas-studio/internal/apitypes"
)

func testServer(t *testing.T) (*Server, *Store) {
	t.Helper()
	store, err := OpenStore(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := DefaultConfig()
	cfg.TokenTTL = Duration(time.Hour)
	return NewServer(cfg, store), store
}

func login(t *testing.T, srv *Server, store *Store) string {
	t.Helper()
	if _, err := store.CreateIdentity("ana@example.com", "hunter2", "Ana", "designer"); err != nil {
		t.Fatal(err)
	}

	body, _ := json.Marshal(apitypes.LoginRequest{Email: "ana@example.com", Password: "hunter2"})
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/identities/login", bytes.NewReader(body)))
	if rec.Code != http.StatusOK {
		t.Fatalf("login status %d: %s", rec.Code, rec.Body)
	}

	var resp apitypes.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	var lr apitypes.LoginResponse
	if err := json.Unmarshal(resp.Data, &lr); err != nil {
		t.Fatal(err)
	}
	if lr.Token == "" {
		t.Fatal("empty token")
	}
	return lr.Token
}

func doJSON(t *testing.T, srv *Server, token, method, path string, body interface{}) (*httptest.ResponseRecorder, apitypes.Response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	var resp apitypes.Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("%s %s: bad envelope: %v", method, path, err)
	}
	return rec, resp
}

func TestLoginBadCredentials(t *testing.T) {
	srv, store := testServer(t)
	if _, err := store.CreateIdentity("ana@example.com", "hunter2", "Ana", "designer"); err != nil {
		t.Fatal(err)
	}

	rec, resp := doJSON(t, srv, "", http.MethodPost, "/v1/identities/login",
		apitypes.LoginRequest{Email: "ana@example.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if resp.Success {
		t.Fatal("envelope marked success on failed login")
	}
}

func TestAuthRequired(t *testing.T) {
	srv, _ := testServer(t)
	rec, _ := doJSON(t, srv, "", http.MethodGet, "/v1/identities/me", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}

	rec2, _ := doJSON(t, srv, "not-a-token", http.MethodGet, "/v1/identities/me", nil)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec2.Code)
	}
}

func TestEnvelopeMeta(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	_, resp := doJSON(t, srv, token, http.MethodGet, "/v1/identities/me", nil)
	if !resp.Success {
		t.Fatal("envelope not marked success")
	}
	if resp.Meta == nil || resp.Meta.Version != demoVersion || resp.Meta.Warning != demoWarning {
		t.Fatalf("unexpected meta: %+v", resp.Meta)
	}
}

func TestDelegationLifecycle(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	rec, resp := doJSON(t, srv, token, http.MethodPost, "/v1/delegations", map[string]interface{}{
		"title":  "Grade bodice block",
		"reward": 25.0,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status %d: %s", rec.Code, rec.Body)
	}
	var d apitypes.Delegation
	if err := json.Unmarshal(resp.Data, &d); err != nil {
		t.Fatal(err)
	}
	if d.Status != apitypes.DelegationPending {
		t.Fatalf("new delegation status %q, want pending", d.Status)
	}

	// Completing pays the reward into the wallet.
	rec2, _ := doJSON(t, srv, token, http.MethodPost, "/v1/delegations/"+d.ID+"/status",
		map[string]string{"status": apitypes.DelegationCompleted})
	if rec2.Code != http.StatusOK {
		t.Fatalf("status update: %d: %s", rec2.Code, rec2.Body)
	}

	_, balResp := doJSON(t, srv, token, http.MethodGet, "/v1/wallet", nil)
	var bal apitypes.WalletBalance
	if err := json.Unmarshal(balResp.Data, &bal); err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 25.0 {
		t.Fatalf("balance %v, want 25", bal.Balance)
	}
}

func TestDelegationUnknownStatusRejected(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	_, resp := doJSON(t, srv, token, http.MethodPost, "/v1/delegations", map[string]interface{}{"title": "x"})
	var d apitypes.Delegation
	if err := json.Unmarshal(resp.Data, &d); err != nil {
		t.Fatal(err)
	}

	rec, _ := doJSON(t, srv, token, http.MethodPost, "/v1/delegations/"+d.ID+"/status",
		map[string]string{"status": "bogus"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d, want 400", rec.Code)
	}
}

func TestWalletLedger(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	doJSON(t, srv, token, http.MethodPost, "/v1/wallet/transactions",
		map[string]interface{}{"kind": "credit", "amount": 100.0, "memo": "top up"})
	doJSON(t, srv, token, http.MethodPost, "/v1/wallet/transactions",
		map[string]interface{}{"kind": "debit", "amount": 30.0, "memo": "template purchase"})

	_, balResp := doJSON(t, srv, token, http.MethodGet, "/v1/wallet", nil)
	var bal apitypes.WalletBalance
	if err := json.Unmarshal(balResp.Data, &bal); err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 70.0 {
		t.Fatalf("balance %v, want 70", bal.Balance)
	}

	_, txResp := doJSON(t, srv, token, http.MethodGet, "/v1/wallet/transactions", nil)
	var txs []apitypes.Transaction
	if err := json.Unmarshal(txResp.Data, &txs); err != nil {
		t.Fatal(err)
	}
	if len(txs) != 2 {
		t.Fatalf("got %d transactions, want 2", len(txs))
	}
}

func TestWalletRejectsBadTransactions(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"unknown kind", map[string]interface{}{"kind": "transfer", "amount": 5.0}},
		{"zero amount", map[string]interface{}{"kind": "credit", "amount": 0.0}},
		{"negative amount", map[string]interface{}{"kind": "debit", "amount": -3.0}},
	}
	for _, tt := range tests {
		rec, _ := doJSON(t, srv, token, http.MethodPost, "/v1/wallet/transactions", tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.name, rec.Code)
		}
	}
}

func TestTemplates(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	if err := store.UpsertTemplate(apitypes.Template{ID: "tpl-1", Name: "A-line skirt", Category: "skirts"}); err != nil {
		t.Fatal(err)
	}

	_, listResp := doJSON(t, srv, token, http.MethodGet, "/v1/templates", nil)
	var list []apitypes.Template
	if err := json.Unmarshal(listResp.Data, &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Name != "A-line skirt" {
		t.Fatalf("unexpected templates: %+v", list)
	}

	rec, _ := doJSON(t, srv, token, http.MethodGet, "/v1/templates/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404", rec.Code)
	}
}

func TestGeneratePatternEndpoint(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	rec, resp := doJSON(t, srv, token, http.MethodPost, "/v1/inference/patterns/generate",
		apitypes.GenerateRequest{Design: apitypes.Design{ID: "design-9"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body)
	}

	var result apitypes.GenerateResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatal(err)
	}
	if result.Pattern.DesignID != "design-9" || len(result.Pattern.Pieces) != 2 {
		t.Fatalf("unexpected pattern: %+v", result.Pattern)
	}
	if result.Metrics["total_area"] != 7000 {
		t.Fatalf("total_area = %v, want 7000", result.Metrics["total_area"])
	}
}

func TestLayoutEndpointAndSummary(t *testing.T) {
	srv, store := testServer(t)
	token := login(t, srv, store)

	pat := apitypes.Pattern{Pieces: []apitypes.PatternPiece{{ID: "a"}, {ID: "b"}}}
	_, resp := doJSON(t, srv, token, http.MethodPost, "/v1/inference/layout/optimize",
		apitypes.LayoutRequest{Pattern: pat, Fabric: apitypes.Fabric{Width: 150}})

	var result apitypes.LayoutResult
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		t.Fatal(err)
	}
	if len(result.Layout) != 2 {
		t.Fatalf("got %d placements, want 2", len(result.Layout))
	}

	_, sumResp := doJSON(t, srv, token, http.MethodGet, "/v1/inference/layout/summary", nil)
	var sum struct {
		Runs int `json:"runs"`
	}
	if err := json.Unmarshal(sumResp.Data, &sum); err != nil {
		t.Fatal(err)
	}
	if sum.Runs != 1 {
		t.Fatalf("summary runs = %d, want 1", sum.Runs)
	}
}
