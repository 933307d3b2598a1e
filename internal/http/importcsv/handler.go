package importcsv

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/financia/internal/calendar"
	"github.com/MrJamesThe3rd/financia/internal/importer"
	"github.com/MrJamesThe3rd/financia/internal/ledger"
	"github.com/MrJamesThe3rd/financia/internal/matching"
	"github.com/MrJamesThe3rd/financia/internal/session"
	"github.com/MrJamesThe3rd/financia/internal/transaction"
)

type Handler struct {
	importSvc *importer.Service
	matchSvc  *matching.Service
}

func NewHandler(importSvc *importer.Service, matchSvc *matching.Service) *Handler {
	return &Handler{
		importSvc: importSvc,
		matchSvc:  matchSvc,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.importCSV)
	r.Post("/confirm", h.confirmImport)
}

type transactionResponse struct {
	ID            string                    `json:"id"`
	Description   string                    `json:"description"`
	Amount        decimal.Decimal           `json:"amount"`
	Date          calendar.Date             `json:"date"`
	Category      string                    `json:"category"`
	Type          transaction.Type          `json:"type"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
}

type importSuccessResponse struct {
	Imported     int                   `json:"imported"`
	Matched      int                   `json:"matched"`
	Transactions []transactionResponse `json:"transactions"`
}

type createParamsDTO struct {
	Description   string                    `json:"description"`
	Amount        decimal.Decimal           `json:"amount"`
	Date          calendar.Date             `json:"date"`
	Category      string                    `json:"category"`
	Type          transaction.Type          `json:"type"`
	PaymentMethod transaction.PaymentMethod `json:"payment_method"`
}

type conflictDTO struct {
	Incoming createParamsDTO     `json:"incoming"`
	Existing transactionResponse `json:"existing"`
}

type importConflictResponse struct {
	New       []createParamsDTO `json:"new"`
	Conflicts []conflictDTO     `json:"conflicts"`
}

type confirmRequest struct {
	Params []createParamsDTO `json:"params"`
}

func (h *Handler) importCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "file field is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	params, err := h.importSvc.Import(importer.Bank(r.FormValue("bank")), file)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	l := session.FromContext(r.Context()).Ledger

	matched, err := h.matchSvc.Apply(r.Context(), l.User(), params)
	if err != nil {
		slog.Error("failed to apply rules", "user", l.User(), "error", err)
	}

	result := transaction.ImportResult{}
	result.New, result.Conflicts = transaction.FindConflicts(l.Transactions(), params)

	if len(result.Conflicts) > 0 {
		resp := importConflictResponse{
			New:       make([]createParamsDTO, 0, len(result.New)),
			Conflicts: make([]conflictDTO, 0, len(result.Conflicts)),
		}
		for _, p := range result.New {
			resp.New = append(resp.New, toParamsDTO(p))
		}

		for _, c := range result.Conflicts {
			resp.Conflicts = append(resp.Conflicts, conflictDTO{
				Incoming: toParamsDTO(c.Incoming),
				Existing: toTxResponse(c.Existing),
			})
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)

		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("failed to encode response", "error", err)
		}

		return
	}

	h.store(w, r, l, result.New, matched)
}

func (h *Handler) confirmImport(w http.ResponseWriter, r *http.Request) {
	var req confirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := make([]transaction.CreateParams, 0, len(req.Params))
	for _, p := range req.Params {
		params = append(params, transaction.CreateParams{
			Description:   p.Description,
			Amount:        p.Amount,
			Date:          p.Date,
			Category:      p.Category,
			Type:          p.Type,
			PaymentMethod: p.PaymentMethod,
		})
	}

	h.store(w, r, session.FromContext(r.Context()).Ledger, params, 0)
}

func (h *Handler) store(w http.ResponseWriter, r *http.Request, l *ledger.Ledger, params []transaction.CreateParams, matched int) {
	imported, err := l.ImportTransactions(r.Context(), params)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	responses := make([]transactionResponse, 0, len(imported))
	for _, tx := range imported {
		responses = append(responses, toTxResponse(tx))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(importSuccessResponse{
		Imported:     len(imported),
		Matched:      matched,
		Transactions: responses,
	}); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func toTxResponse(tx transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:            tx.ID,
		Description:   tx.Description,
		Amount:        tx.Amount,
		Date:          tx.Date,
		Category:      tx.Category,
		Type:          tx.Type,
		PaymentMethod: tx.PaymentMethod,
	}
}

func toParamsDTO(p transaction.CreateParams) createParamsDTO {
	return createParamsDTO{
		Description:   p.Description,
		Amount:        p.Amount,
		Date:          p.Date,
		Category:      p.Category,
		Type:          p.Type,
		PaymentMethod: p.PaymentMethod,
	}
}
