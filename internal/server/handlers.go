package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Veraticus/the-receipts-must-flow/internal/common"
	"github.com/Veraticus/the-receipts-must-flow/internal/model"
)

// maxReceiptSize bounds uploaded receipt images.
const maxReceiptSize = 10 << 20 // 10 MiB

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleScanReceipt(w http.ResponseWriter, r *http.Request) {
	if s.extractor == nil {
		s.respondError(w, http.StatusServiceUnavailable,
			"AI extraction is not configured; set RECEIPTS_AI_API_KEY to enable receipt scanning")
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("receipt")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing receipt file")
		return
	}
	defer func() { _ = file.Close() }()

	image, err := io.ReadAll(io.LimitReader(file, maxReceiptSize))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read receipt file")
		return
	}

	result := s.extractor.Extract(r.Context(), image, header.Header.Get("Content-Type"))
	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	s.respondJSON(w, http.StatusOK, model.Categories)
}

// expenseRequest is the wire shape for creating and updating expenses.
type expenseRequest struct {
	Merchant   string   `json:"merchant"`
	CategoryID string   `json:"categoryId"`
	Date       string   `json:"date"`
	Notes      string   `json:"notes"`
	Items      []string `json:"items"`
	Amount     float64  `json:"amount"`
}

func (req *expenseRequest) toExpense(id string) (*model.Expense, error) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", req.Date)
	}

	items := req.Items
	if items == nil {
		items = []string{}
	}

	expense := model.Expense{
		ID:       id,
		Merchant: req.Merchant,
		Amount:   req.Amount,
		Category: model.CategoryByID(req.CategoryID),
		Date:     date,
		Items:    items,
		Notes:    req.Notes,
	}
	if id == "" {
		expense = model.NewExpense(req.Merchant, req.Amount, expense.Category, date, items, req.Notes)
	}

	if err := expense.Validate(); err != nil {
		return nil, err
	}
	return &expense, nil
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	s.respondJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	expense, err := req.toExpense("")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveExpense(r.Context(), expense); err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, expense)
}

func (s *Server) handleGetExpense(w http.ResponseWriter, r *http.Request) {
	expense, err := s.store.GetExpense(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Edits are full replacements; the record must already exist.
	if _, err := s.store.GetExpense(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "expense not found")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	var req expenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	expense, err := req.toExpense(id)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveExpense(r.Context(), expense); err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteExpense(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "expense not found")
		return
	}
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleExpenseSummary(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 1, 0)

	if from := r.URL.Query().Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid from date: expected YYYY-MM-DD")
			return
		}
		start = t
	}
	if to := r.URL.Query().Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "invalid to date: expected YYYY-MM-DD")
			return
		}
		end = t
	}

	summary, err := s.store.CategorySummary(r.Context(), start, end)
	if err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, summary)
}

// budgetRequest is the wire shape for creating and updating budgets.
type budgetRequest struct {
	CategoryID string  `json:"categoryId"`
	Period     string  `json:"period"`
	Amount     float64 `json:"amount"`
}

func (req *budgetRequest) toBudget(id string) (*model.Budget, error) {
	budget := model.Budget{
		ID:       id,
		Category: model.CategoryByID(req.CategoryID),
		Amount:   req.Amount,
		Period:   model.Period(req.Period),
	}
	if id == "" {
		budget = model.NewBudget(budget.Category, req.Amount, budget.Period)
	}

	if err := budget.Validate(); err != nil {
		return nil, err
	}
	return &budget, nil
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := s.store.ListBudgets(r.Context())
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	if budgets == nil {
		budgets = []model.Budget{}
	}
	s.respondJSON(w, http.StatusOK, budgets)
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget, err := req.toBudget("")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveBudget(r.Context(), budget); err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, budget)
}

func (s *Server) handleUpdateBudget(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := s.store.GetBudget(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "budget not found")
			return
		}
		s.respondInternalError(w, err)
		return
	}

	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	budget, err := req.toBudget(id)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := s.store.SaveBudget(r.Context(), budget); err != nil {
		s.respondInternalError(w, err)
		return
	}

	s.respondJSON(w, http.StatusOK, budget)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	err := s.store.DeleteBudget(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, common.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, "budget not found")
		return
	}
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleBudgetStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.store.BudgetStatuses(r.Context(), time.Now())
	if err != nil {
		s.respondInternalError(w, err)
		return
	}
	s.respondJSON(w, http.StatusOK, statuses)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

func (s *Server) respondInternalError(w http.ResponseWriter, err error) {
	s.logger.Error("request failed", "error", err)
	s.respondError(w, http.StatusInternalServerError, "internal error")
}
