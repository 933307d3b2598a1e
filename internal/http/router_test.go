package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/financia/internal/assistant"
	"github.com/MrJamesThe3rd/financia/internal/auth"
	apihttp "github.com/MrJamesThe3rd/financia/internal/http"
	authhttp "github.com/MrJamesThe3rd/financia/internal/http/auth"
	"github.com/MrJamesThe3rd/financia/internal/http/chat"
	"github.com/MrJamesThe3rd/financia/internal/http/export"
	"github.com/MrJamesThe3rd/financia/internal/http/importcsv"
	"github.com/MrJamesThe3rd/financia/internal/http/investment"
	"github.com/MrJamesThe3rd/financia/internal/http/matching"
	"github.com/MrJamesThe3rd/financia/internal/http/records"
	"github.com/MrJamesThe3rd/financia/internal/http/summary"
	"github.com/MrJamesThe3rd/financia/internal/http/tax"
	"github.com/MrJamesThe3rd/financia/internal/http/transaction"
	"github.com/MrJamesThe3rd/financia/internal/importer"
	"github.com/MrJamesThe3rd/financia/internal/kv/memory"
	"github.com/MrJamesThe3rd/financia/internal/logging"
	matchingsvc "github.com/MrJamesThe3rd/financia/internal/matching"
	matchingstore "github.com/MrJamesThe3rd/financia/internal/matching/store"
	"github.com/MrJamesThe3rd/financia/internal/session"
)

const faturaCSV = `date,title,amount
2024-01-10,Mercado Livre,120.50
2024-01-12,Uber Trip,30.00
`

type api struct {
	t       *testing.T
	handler http.Handler
}

func newAPI(t *testing.T, client assistant.Client) *api {
	t.Helper()

	store := memory.New()
	log := logging.Discard()

	tokens, err := auth.NewTokens("test-secret", time.Hour)
	require.NoError(t, err)

	sessions := session.NewManager(store, client, log, time.Second)
	matchSvc := matchingsvc.NewService(matchingstore.New(store))

	handler := apihttp.New(apihttp.Handlers{
		Auth:         authhttp.NewHandler(auth.NewDirectory(store, log), tokens, sessions),
		Transactions: transaction.NewHandler(),
		Investments:  investment.NewHandler(),
		Taxes:        tax.NewHandler(),
		Records:      records.NewHandler(),
		Summary:      summary.NewHandler(),
		Chat:         chat.NewHandler(),
		Import:       importcsv.NewHandler(importer.NewService(), matchSvc),
		Matching:     matching.NewHandler(matchSvc),
		Export:       export.NewHandler(),
	}, []string{"*"})

	return &api{t: t, handler: handler}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)

		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, "/api/v1"+path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func (a *api) upload(token, bank, content string) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer

	mw := multipart.NewWriter(&buf)
	require.NoError(a.t, mw.WriteField("bank", bank))

	fw, err := mw.CreateFormFile("file", "statement.csv")
	require.NoError(a.t, err)

	_, err = io.WriteString(fw, content)
	require.NoError(a.t, err)
	require.NoError(a.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)

	return rec
}

func (a *api) register(email string) string {
	a.t.Helper()

	rec := a.do(http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Ana",
		"email":    email,
		"password": "correct horse",
	})
	require.Equal(a.t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(a.t, resp.Token)

	return resp.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())

	return v
}

type txBody struct {
	ID       string          `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Type     string          `json:"type"`
	Category struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"category"`
}

func TestAuth(t *testing.T) {
	a := newAPI(t, nil)
	a.register("ana@example.com")

	type testCase struct {
		name     string
		path     string
		body     map[string]string
		wantCode int
	}

	tests := []testCase{
		{
			name:     "DuplicateEmail",
			path:     "/auth/register",
			body:     map[string]string{"name": "Ana", "email": "ANA@example.com", "password": "another pass"},
			wantCode: http.StatusConflict,
		},
		{
			name:     "InvalidEmail",
			path:     "/auth/register",
			body:     map[string]string{"name": "Bob", "email": "bob", "password": "another pass"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "ShortPassword",
			path:     "/auth/register",
			body:     map[string]string{"name": "Bob", "email": "bob@example.com", "password": "short"},
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "WrongPassword",
			path:     "/auth/login",
			body:     map[string]string{"email": "ana@example.com", "password": "wrong horse"},
			wantCode: http.StatusUnauthorized,
		},
		{
			name:     "Login",
			path:     "/auth/login",
			body:     map[string]string{"email": "ana@example.com", "password": "correct horse"},
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(http.MethodPost, tt.path, "", tt.body)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestAuthenticate(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/transactions", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, a.do(http.MethodGet, "/transactions", "not-a-token", nil).Code)

	rec := a.do(http.MethodGet, "/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decode[struct {
		Email string `json:"email"`
	}](t, rec)
	assert.Equal(t, "ana@example.com", me.Email)
}

func TestAccount_Update(t *testing.T) {
	type account struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Currency string `json:"currency"`
	}

	type testCase struct {
		name     string
		body     map[string]any
		wantCode int
		want     account
	}

	tests := []testCase{
		{
			name:     "Name",
			body:     map[string]any{"name": "Ana Souza"},
			wantCode: http.StatusOK,
			want:     account{Name: "Ana Souza", Email: "ana@example.com", Currency: "BRL"},
		},
		{
			name:     "Currency",
			body:     map[string]any{"currency": "gbp"},
			wantCode: http.StatusOK,
			want:     account{Name: "Ana", Email: "ana@example.com", Currency: "GBP"},
		},
		{
			name:     "Both",
			body:     map[string]any{"name": "Ana S.", "currency": "EUR"},
			wantCode: http.StatusOK,
			want:     account{Name: "Ana S.", Email: "ana@example.com", Currency: "EUR"},
		},
		{name: "BlankName", body: map[string]any{"name": " "}, wantCode: http.StatusBadRequest},
		{name: "UnknownCurrency", body: map[string]any{"currency": "JPY"}, wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newAPI(t, nil)
			token := a.register("ana@example.com")

			rec := a.do(http.MethodPatch, "/me", token, tt.body)
			require.Equal(t, tt.wantCode, rec.Code, rec.Body.String())

			if tt.wantCode != http.StatusOK {
				me := decode[account](t, a.do(http.MethodGet, "/me", token, nil))
				assert.Equal(t, account{Name: "Ana", Email: "ana@example.com", Currency: "BRL"}, me)

				return
			}

			assert.Equal(t, tt.want, decode[account](t, rec))
			assert.Equal(t, tt.want, decode[account](t, a.do(http.MethodGet, "/me", token, nil)))
		})
	}
}

func TestTransactions(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	rec := a.do(http.MethodPost, "/transactions", token, map[string]any{
		"description":    "Salary",
		"amount":         "1000",
		"date":           "2024-01-05",
		"category":       "salary",
		"payment_method": "pix",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[txBody](t, rec)
	assert.Equal(t, "income", created.Type)
	assert.Equal(t, "Salário", created.Category.Name)

	rec = a.do(http.MethodPost, "/transactions", token, map[string]any{
		"description":    "Broken",
		"amount":         "-5",
		"date":           "2024-01-05",
		"category":       "food",
		"payment_method": "pix",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = a.do(http.MethodPatch, "/transactions/"+created.ID, token, map[string]any{"amount": "1200.50"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decimal.RequireFromString("1200.50").Equal(decode[txBody](t, rec).Amount))

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPatch, "/transactions/missing", token, map[string]any{"amount": "1"}).Code)

	list := decode[[]txBody](t, a.do(http.MethodGet, "/transactions", token, nil))
	require.Len(t, list, 1)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/transactions/"+created.ID, token, nil).Code)
	assert.Empty(t, decode[[]txBody](t, a.do(http.MethodGet, "/transactions", token, nil)))
}

func TestTransactions_IsolatedPerUser(t *testing.T) {
	a := newAPI(t, nil)
	ana := a.register("ana@example.com")
	bob := a.register("bob@example.com")

	rec := a.do(http.MethodPost, "/transactions", ana, map[string]any{
		"description":    "Lunch",
		"amount":         "20",
		"date":           "2024-01-05",
		"category":       "food",
		"payment_method": "debit",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Empty(t, decode[[]txBody](t, a.do(http.MethodGet, "/transactions", bob, nil)))
}

func TestTaxes_Toggle(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	rec := a.do(http.MethodPost, "/taxes", token, map[string]any{
		"name":     "IPVA",
		"amount":   "350",
		"due_date": "2024-03-10",
		"category": "ipva",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	type taxBody struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}

	created := decode[taxBody](t, rec)
	assert.Equal(t, "pending", created.Status)

	rec = a.do(http.MethodPost, "/taxes/"+created.ID+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "paid", decode[taxBody](t, rec).Status)

	assert.Equal(t, http.StatusNotFound, a.do(http.MethodPost, "/taxes/missing/toggle", token, nil).Code)

	rec = a.do(http.MethodGet, "/summary/taxes", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	overview := decode[struct {
		Paid decimal.Decimal `json:"paid"`
	}](t, rec)
	assert.True(t, decimal.NewFromInt(350).Equal(overview.Paid))
}

func TestInvestments(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	rec := a.do(http.MethodPost, "/investments", token, map[string]any{
		"name":     "Tesouro Selic",
		"ticker":   "selic",
		"amount":   "500",
		"date":     "2024-02-01",
		"category": "fixed_income",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := decode[struct {
		ID     string `json:"id"`
		Ticker string `json:"ticker"`
	}](t, rec)
	assert.Equal(t, "SELIC", created.Ticker)

	rec = a.do(http.MethodGet, "/summary/investments", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	allocation := decode[struct {
		Total decimal.Decimal `json:"total"`
	}](t, rec)
	assert.True(t, decimal.NewFromInt(500).Equal(allocation.Total))

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/investments/"+created.ID, token, nil).Code)
}

func TestSummary(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	for _, body := range []map[string]any{
		{"description": "Salary", "amount": "1000", "date": "2024-01-05", "category": "salary", "payment_method": "pix"},
		{"description": "Rent", "amount": "400", "date": "2024-01-10", "category": "rent", "payment_method": "debit"},
		{"description": "Old", "amount": "999", "date": "2023-12-31", "category": "food", "payment_method": "cash"},
	} {
		require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/transactions", token, body).Code)
	}

	rec := a.do(http.MethodGet, "/summary?start_date=2024-01-01&end_date=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[struct {
		Totals struct {
			Income  decimal.Decimal `json:"income"`
			Expense decimal.Decimal `json:"expense"`
			Balance decimal.Decimal `json:"balance"`
		} `json:"totals"`
		Health struct {
			SavingsRate float64 `json:"savings_rate"`
			Score       string  `json:"score"`
		} `json:"health"`
	}](t, rec)

	assert.True(t, decimal.NewFromInt(1000).Equal(got.Totals.Income))
	assert.True(t, decimal.NewFromInt(400).Equal(got.Totals.Expense))
	assert.True(t, decimal.NewFromInt(600).Equal(got.Totals.Balance))
	assert.InDelta(t, 60, got.Health.SavingsRate, 1e-9)
	assert.Equal(t, "Excellent", got.Health.Score)

	assert.Equal(t, http.StatusBadRequest,
		a.do(http.MethodGet, "/summary?start_date=2024-02-01&end_date=2024-01-01", token, nil).Code)

	assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/records", token, nil).Code)
	assert.Empty(t, decode[[]txBody](t, a.do(http.MethodGet, "/transactions", token, nil)))
}

func TestImport(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	rec := a.do(http.MethodPost, "/rules", token, map[string]any{
		"raw_pattern":           "uber",
		"preferred_description": "Ride",
		"category":              "transport",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = a.upload(token, "nubank", faturaCSV)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	result := decode[struct {
		Imported     int `json:"imported"`
		Matched      int `json:"matched"`
		Transactions []struct {
			Description string `json:"description"`
			Category    string `json:"category"`
		} `json:"transactions"`
	}](t, rec)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Matched)
	assert.Contains(t, result.Transactions, struct {
		Description string `json:"description"`
		Category    string `json:"category"`
	}{Description: "Ride", Category: "transport"})

	rec = a.upload(token, "nubank", faturaCSV)
	require.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	conflicts := decode[struct {
		New       []json.RawMessage `json:"new"`
		Conflicts []json.RawMessage `json:"conflicts"`
	}](t, rec)
	assert.Empty(t, conflicts.New)
	assert.Len(t, conflicts.Conflicts, 2)

	rec = a.do(http.MethodPost, "/import/confirm", token, map[string]any{
		"params": []map[string]any{
			{"description": "Uber Trip", "amount": "30.00", "date": "2024-01-12", "category": "transport", "payment_method": "credit"},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Len(t, decode[[]txBody](t, a.do(http.MethodGet, "/transactions", token, nil)), 3)

	assert.Equal(t, http.StatusBadRequest, a.upload(token, "monzo", faturaCSV).Code)
}

func TestRules_Suggest(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/rules", token, map[string]any{
		"raw_pattern":           "NETFLIX",
		"preferred_description": "Netflix",
	}).Code)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/rules", token, map[string]any{
		"raw_pattern":           " ",
		"preferred_description": "Nothing",
	}).Code)

	rec := a.do(http.MethodGet, "/rules/suggest?description=COMPRA+NETFLIX.COM", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decode[struct {
		Matched              bool   `json:"matched"`
		PreferredDescription string `json:"preferred_description"`
	}](t, rec)
	assert.True(t, got.Matched)
	assert.Equal(t, "Netflix", got.PreferredDescription)

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/rules/suggest", token, nil).Code)
}

func TestExport(t *testing.T) {
	a := newAPI(t, nil)
	token := a.register("ana@example.com")

	require.Equal(t, http.StatusCreated, a.do(http.MethodPost, "/transactions", token, map[string]any{
		"description": "Rent", "amount": "400", "date": "2024-01-10", "category": "rent", "payment_method": "debit",
	}).Code)

	rec := a.do(http.MethodGet, "/export?start_date=2024-01-01&end_date=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "financia_2024-01-01_2024-01-31.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id,date,description"))
	assert.Contains(t, rec.Body.String(), "Rent")

	assert.Equal(t, http.StatusBadRequest, a.do(http.MethodGet, "/export?format=pdf", token, nil).Code)

	require.Equal(t, http.StatusOK, a.do(http.MethodPatch, "/me", token, map[string]string{"currency": "usd"}).Code)

	rec = a.do(http.MethodGet, "/export?format=text&start_date=2024-01-01&end_date=2024-01-31", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Expense: US$ 400,00")
}

func TestChat(t *testing.T) {
	t.Run("Unavailable", func(t *testing.T) {
		a := newAPI(t, nil)
		token := a.register("ana@example.com")

		rec := a.do(http.MethodPost, "/chat", token, map[string]string{"message": "hi"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("Reply", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		client := assistant.NewMockClient(ctrl)
		conv := assistant.NewMockConversation(ctrl)

		client.EXPECT().Start(gomock.Any(), gomock.Any()).Return(conv, nil)
		conv.EXPECT().Send(gomock.Any(), "hi").Return(assistant.Reply{Text: "Hello! How can I help?"}, nil)

		a := newAPI(t, client)
		token := a.register("ana@example.com")

		assert.Equal(t, http.StatusBadRequest, a.do(http.MethodPost, "/chat", token, map[string]string{"message": "  "}).Code)

		rec := a.do(http.MethodPost, "/chat", token, map[string]string{"message": "hi"})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		type message struct {
			Role string `json:"role"`
			Text string `json:"text"`
		}

		history := decode[[]message](t, rec)
		require.Len(t, history, 2)
		assert.Equal(t, message{Role: "user", Text: "hi"}, history[0])
		assert.Equal(t, message{Role: "model", Text: "Hello! How can I help?"}, history[1])

		assert.Len(t, decode[[]message](t, a.do(http.MethodGet, "/chat", token, nil)), 2)
		assert.Equal(t, http.StatusNoContent, a.do(http.MethodDelete, "/chat", token, nil).Code)
	})
}
