package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/services"
)

// ExpenseHandler handles HTTP requests for expenses and the capital balance.
type ExpenseHandler struct {
	service services.ExpenseServiceProvider
}

// NewExpenseHandler creates a new ExpenseHandler.
func NewExpenseHandler(service services.ExpenseServiceProvider) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// ExpensePayload defines the structure for add and edit expense requests.
type ExpensePayload struct {
	Title       string    `json:"title" validate:"required"`
	Category    string    `json:"category"`
	Date        time.Time `json:"date" validate:"required"`
	Price       float64   `json:"price" validate:"required,gt=0"`
	Quantity    int       `json:"quantity" validate:"required,gt=0"`
	Description string    `json:"description"`
}

func (p ExpensePayload) toInput() services.ExpenseInput {
	return services.ExpenseInput{
		Title:       p.Title,
		Category:    p.Category,
		Date:        p.Date,
		Price:       p.Price,
		Quantity:    p.Quantity,
		Description: p.Description,
	}
}

// userID extracts the authenticated user from the request context.
func userID(r *http.Request) (string, bool) {
	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		return "", false
	}
	return claims.UserID, true
}

// Add handles the request to record a new expense.
func (h *ExpenseHandler) Add(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload ExpensePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	expense, err := h.service.AddExpense(uid, payload.toInput())
	if err != nil {
		if errors.Is(err, services.ErrInsufficientFunds) {
			http.Error(w, "Insufficient capital balance for this expense", http.StatusBadRequest)
			return
		}
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to add expense")
		http.Error(w, "Failed to add expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusCreated, expense)
}

// Get handles the request to fetch a single expense.
func (h *ExpenseHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	expense, err := h.service.GetExpense(uid, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Expense not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to get expense")
		http.Error(w, "Failed to get expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Edit handles the request to replace an expense's fields, reconciling the
// capital balance with the signed total delta.
func (h *ExpenseHandler) Edit(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	var payload ExpensePayload
	if !decodeAndValidate(w, r, &payload) {
		return
	}

	expense, err := h.service.EditExpense(uid, chi.URLParam(r, "id"), payload.toInput())
	if err != nil {
		switch {
		case errors.Is(err, services.ErrNotFound):
			http.Error(w, "Expense not found", http.StatusNotFound)
		case errors.Is(err, services.ErrInsufficientFunds):
			http.Error(w, "Insufficient capital balance for this expense", http.StatusBadRequest)
		default:
			log.Error().Err(err).Str("user_id", uid).Msg("Failed to edit expense")
			http.Error(w, "Failed to edit expense", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusOK, expense)
}

// Delete handles the request to remove an expense, crediting its total back
// to the capital balance.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	deleted, err := h.service.DeleteExpense(uid, chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			http.Error(w, "Expense or capital record not found", http.StatusNotFound)
			return
		}
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to delete expense")
		http.Error(w, "Failed to delete expense", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, deleted)
}

// Count handles the request for the user's expense count.
func (h *ExpenseHandler) Count(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	count, err := h.service.CountExpenses(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to count expenses")
		http.Error(w, "Failed to count expenses", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// Total handles the request for the cumulative total of all current expenses.
func (h *ExpenseHandler) Total(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	total, err := h.service.CumulativeTotal(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to compute cumulative total")
		http.Error(w, "Failed to compute cumulative total", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]float64{"total": total})
}

// List handles the request for all of the user's expenses, newest first.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	expenses, err := h.service.ListExpenses(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to list expenses")
		http.Error(w, "Failed to list expenses", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, expenses)
}

// Summary handles the request for the total+date chart projection, oldest
// first.
func (h *ExpenseHandler) Summary(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(r)
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	points, err := h.service.ListExpenseSummary(uid)
	if err != nil {
		log.Error().Err(err).Str("user_id", uid).Msg("Failed to list expense summary")
		http.Error(w, "Failed to list expense summary", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, points)
}
