package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/sharifulislamudoy/money-manager/internal/auth"
	"github.com/sharifulislamudoy/money-manager/internal/balance"
	"github.com/sharifulislamudoy/money-manager/internal/currency"
	"github.com/sharifulislamudoy/money-manager/internal/ledger"
	"github.com/sharifulislamudoy/money-manager/internal/processor"
)

const testUserID = "11111111-1111-1111-1111-111111111111"

type memBalances struct {
	users map[string]*balance.Balances
}

func (m *memBalances) Get(_ context.Context, userID string) (balance.Balances, error) {
	b, ok := m.users[userID]
	if !ok {
		return balance.Balances{}, balance.ErrUserNotFound
	}
	return *b, nil
}

func (m *memBalances) Update(_ context.Context, userID string, bdt, usd float64, expectVersion int64) error {
	b, ok := m.users[userID]
	if !ok {
		return balance.ErrUserNotFound
	}
	if b.Version != expectVersion {
		return balance.ErrVersionConflict
	}
	b.BDT, b.USD = bdt, usd
	b.Version++
	return nil
}

func (m *memBalances) Set(_ context.Context, userID string, bdt, usd float64) error {
	b, ok := m.users[userID]
	if !ok {
		return balance.ErrUserNotFound
	}
	b.BDT, b.USD = bdt, usd
	b.Version++
	return nil
}

type memLedger struct {
	recs   []ledger.Transaction
	nextID int
}

func (m *memLedger) Insert(_ context.Context, t ledger.Transaction) (ledger.Transaction, error) {
	m.nextID++
	t.ID = fmt.Sprintf("tx-%d", m.nextID)
	m.recs = append(m.recs, t)
	return t, nil
}

func (m *memLedger) ListByUser(_ context.Context, userID string, limit int) ([]ledger.Transaction, error) {
	if limit <= 0 || limit > ledger.DefaultLimit {
		limit = ledger.DefaultLimit
	}
	var out []ledger.Transaction
	for _, r := range m.recs {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memLedger) DeleteByUser(_ context.Context, userID string) (int64, error) {
	var kept []ledger.Transaction
	var n int64
	for _, r := range m.recs {
		if r.UserID == userID {
			n++
			continue
		}
		kept = append(kept, r)
	}
	m.recs = kept
	return n, nil
}

// stubAuth resolves every request to the seeded test user, standing in for
// the JWT middleware (exercised separately in the auth package tests).
func stubAuth(c *fiber.Ctx) error {
	c.Locals("user_id", testUserID)
	return c.Next()
}

func newTestApp(seedUser bool) (*fiber.App, *memBalances, *memLedger) {
	bal := &memBalances{users: make(map[string]*balance.Balances)}
	if seedUser {
		bal.users[testUserID] = &balance.Balances{}
	}
	led := &memLedger{}
	p := processor.New(bal, led, currency.DefaultRates())

	bh := NewBalanceHandler(p, nil)
	th := NewTransactionsHandler(p, nil)

	app := fiber.New()
	app.Get("/balance", stubAuth, bh.Get)
	app.Put("/balance", stubAuth, bh.Put)
	app.Get("/transactions", stubAuth, th.List)
	app.Post("/transactions", stubAuth, th.Create)
	app.Delete("/transactions", stubAuth, th.Clear)
	return app, bal, led
}

func doJSON(t *testing.T, app *fiber.App, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(buf)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestGetBalance_UserMissing(t *testing.T) {
	app, _, _ := newTestApp(false)
	resp, _ := doJSON(t, app, http.MethodGet, "/balance", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetBalance(t *testing.T) {
	app, bal, _ := newTestApp(true)
	bal.users[testUserID].BDT = 100
	bal.users[testUserID].USD = 0.82

	resp, body := doJSON(t, app, http.MethodGet, "/balance", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["balanceBDT"].(float64) != 100 || body["balanceUSD"].(float64) != 0.82 {
		t.Errorf("body = %v", body)
	}
}

func TestPutBalance_Overwrites(t *testing.T) {
	app, bal, _ := newTestApp(true)

	resp, body := doJSON(t, app, http.MethodPut, "/balance", map[string]any{
		"balanceBDT": 500.0,
		"balanceUSD": 4.1,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Errorf("body = %v", body)
	}
	if got := bal.users[testUserID]; got.BDT != 500 || got.USD != 4.1 {
		t.Errorf("stored balances = %+v", got)
	}
}

func TestCreateTransaction(t *testing.T) {
	app, bal, led := newTestApp(true)

	resp, body := doJSON(t, app, http.MethodPost, "/transactions", map[string]any{
		"type":        "add",
		"amount":      100,
		"currency":    "BDT",
		"description": "salary",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true {
		t.Fatalf("body = %v", body)
	}

	tx, ok := body["transaction"].(map[string]any)
	if !ok {
		t.Fatalf("no transaction in body: %v", body)
	}
	if tx["type"] != "add" || tx["currency"] != "BDT" {
		t.Errorf("transaction = %v", tx)
	}
	if math.Abs(tx["usdAmount"].(float64)-0.82) > 1e-9 {
		t.Errorf("usdAmount = %v, want 0.82", tx["usdAmount"])
	}
	if tx["userId"] != testUserID {
		t.Errorf("userId = %v (owner must be injected server-side)", tx["userId"])
	}

	if got := bal.users[testUserID]; math.Abs(got.BDT-100) > 1e-9 {
		t.Errorf("BDT = %v, want 100", got.BDT)
	}
	if len(led.recs) != 1 {
		t.Errorf("ledger entries = %d, want 1", len(led.recs))
	}
}

func TestCreateTransaction_Invalid(t *testing.T) {
	app, _, led := newTestApp(true)

	cases := []map[string]any{
		{"type": "add", "amount": 0, "currency": "BDT", "description": "x"},
		{"type": "add", "amount": -3, "currency": "BDT", "description": "x"},
		{"type": "add", "amount": 1, "currency": "BDT", "description": "   "},
		{"type": "add", "amount": 1, "currency": "EUR", "description": "x"},
		{"type": "transfer", "amount": 1, "currency": "BDT", "description": "x"},
	}
	for i, body := range cases {
		resp, _ := doJSON(t, app, http.MethodPost, "/transactions", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("case %d: status = %d, want 400", i, resp.StatusCode)
		}
	}
	if len(led.recs) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(led.recs))
	}
}

func TestCreateTransaction_InsufficientFunds(t *testing.T) {
	app, bal, led := newTestApp(true)
	bal.users[testUserID].BDT = 50
	bal.users[testUserID].USD = 0.41

	resp, _ := doJSON(t, app, http.MethodPost, "/transactions", map[string]any{
		"type":        "minus",
		"amount":      100,
		"currency":    "BDT",
		"description": "too much",
	})
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
	if got := bal.users[testUserID]; got.BDT != 50 || got.USD != 0.41 {
		t.Errorf("balances changed: %+v", got)
	}
	if len(led.recs) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(led.recs))
	}
}

func TestListTransactions(t *testing.T) {
	app, _, _ := newTestApp(true)

	for i := 0; i < 3; i++ {
		resp, _ := doJSON(t, app, http.MethodPost, "/transactions", map[string]any{
			"type": "add", "amount": float64(i + 1), "currency": "USD", "description": "dep",
		})
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("seed %d: status %d", i, resp.StatusCode)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var items []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 3 {
		t.Errorf("items = %d, want 3", len(items))
	}
}

func TestListTransactions_EmptyIsArray(t *testing.T) {
	app, _, _ := newTestApp(true)

	req := httptest.NewRequest(http.MethodGet, "/transactions", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if got := buf.String(); got != "[]" {
		t.Errorf("empty history body = %q, want []", got)
	}
}

func TestClearTransactions(t *testing.T) {
	app, bal, led := newTestApp(true)

	if resp, _ := doJSON(t, app, http.MethodPost, "/transactions", map[string]any{
		"type": "add", "amount": 10.0, "currency": "BDT", "description": "dep",
	}); resp.StatusCode != http.StatusOK {
		t.Fatal("seed failed")
	}
	bdtBefore := bal.users[testUserID].BDT

	resp, body := doJSON(t, app, http.MethodDelete, "/transactions", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body["success"] != true || body["message"] != "All transactions deleted" {
		t.Errorf("body = %v", body)
	}
	if len(led.recs) != 0 {
		t.Errorf("ledger entries = %d, want 0", len(led.recs))
	}
	if bal.users[testUserID].BDT != bdtBefore {
		t.Errorf("clear history must not touch balances")
	}
}

// The real JWT middleware in front of these handlers rejects sessionless
// calls before any store access.
func TestRoutes_RequireSession(t *testing.T) {
	bal := &memBalances{users: make(map[string]*balance.Balances)}
	led := &memLedger{}
	p := processor.New(bal, led, currency.DefaultRates())
	bh := NewBalanceHandler(p, nil)

	app := fiber.New()
	app.Get("/balance", auth.Middleware([]byte("secret"), nil), bh.Get)

	req := httptest.NewRequest(http.MethodGet, "/balance", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", resp.StatusCode)
	}
}
