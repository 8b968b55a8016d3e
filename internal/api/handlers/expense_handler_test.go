package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rskdev/pettycash-be/internal/auth"
	"github.com/rskdev/pettycash-be/internal/models"
	"github.com/rskdev/pettycash-be/internal/services"
)

// ---- mock implementation ----

type mockExpenseService struct {
	addFn     func(userID string, in services.ExpenseInput) (models.Expense, error)
	getFn     func(userID, expenseID string) (models.Expense, error)
	editFn    func(userID, expenseID string, in services.ExpenseInput) (models.Expense, error)
	deleteFn  func(userID, expenseID string) (models.Expense, error)
	countFn   func(userID string) (int, error)
	totalFn   func(userID string) (float64, error)
	listFn    func(userID string) ([]models.Expense, error)
	summaryFn func(userID string) ([]models.ExpensePoint, error)
}

func (m *mockExpenseService) AddExpense(userID string, in services.ExpenseInput) (models.Expense, error) {
	if m.addFn != nil {
		return m.addFn(userID, in)
	}
	return models.Expense{}, fmt.Errorf("not configured")
}
func (m *mockExpenseService) GetExpense(userID, expenseID string) (models.Expense, error) {
	if m.getFn != nil {
		return m.getFn(userID, expenseID)
	}
	return models.Expense{}, fmt.Errorf("not configured")
}
func (m *mockExpenseService) EditExpense(userID, expenseID string, in services.ExpenseInput) (models.Expense, error) {
	if m.editFn != nil {
		return m.editFn(userID, expenseID, in)
	}
	return models.Expense{}, fmt.Errorf("not configured")
}
func (m *mockExpenseService) DeleteExpense(userID, expenseID string) (models.Expense, error) {
	if m.deleteFn != nil {
		return m.deleteFn(userID, expenseID)
	}
	return models.Expense{}, fmt.Errorf("not configured")
}
func (m *mockExpenseService) CountExpenses(userID string) (int, error) {
	if m.countFn != nil {
		return m.countFn(userID)
	}
	return 0, fmt.Errorf("not configured")
}
func (m *mockExpenseService) CumulativeTotal(userID string) (float64, error) {
	if m.totalFn != nil {
		return m.totalFn(userID)
	}
	return 0, fmt.Errorf("not configured")
}
func (m *mockExpenseService) ListExpenses(userID string) ([]models.Expense, error) {
	if m.listFn != nil {
		return m.listFn(userID)
	}
	return nil, fmt.Errorf("not configured")
}
func (m *mockExpenseService) ListExpenseSummary(userID string) ([]models.ExpensePoint, error) {
	if m.summaryFn != nil {
		return m.summaryFn(userID)
	}
	return nil, fmt.Errorf("not configured")
}

// ---- helpers ----

// fakeAuth injects claims for the given user, standing in for the JWT
// middleware.
func fakeAuth(userID string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := &auth.Claims{UserID: userID}
			ctx := context.WithValue(r.Context(), auth.UserClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func newExpenseTestRouter(svc services.ExpenseServiceProvider, userID string) *chi.Mux {
	h := NewExpenseHandler(svc)
	r := chi.NewRouter()
	r.Route("/expenses", func(r chi.Router) {
		r.Use(fakeAuth(userID))
		r.Get("/", h.List)
		r.Post("/", h.Add)
		r.Get("/count", h.Count)
		r.Get("/total", h.Total)
		r.Get("/summary", h.Summary)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.Get)
			r.Put("/", h.Edit)
			r.Delete("/", h.Delete)
		})
	})
	return r
}

func doRequest(router http.Handler, method, url string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func validExpenseBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Lunch",
		"category":    "food",
		"date":        time.Now().Format(time.RFC3339),
		"price":       50.0,
		"quantity":    2,
		"description": "team lunch",
	}
}

// ---- tests ----

func TestAddExpenseCreated(t *testing.T) {
	svc := &mockExpenseService{
		addFn: func(userID string, in services.ExpenseInput) (models.Expense, error) {
			assert.Equal(t, "u1", userID)
			assert.Equal(t, 50.0, in.Price)
			assert.Equal(t, 2, in.Quantity)
			return models.Expense{ID: "e1", UserID: userID, Total: 100}, nil
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodPost, "/expenses/", validExpenseBody())
	assert.Equal(t, http.StatusCreated, w.Code)

	var got models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "e1", got.ID)
	assert.Equal(t, 100.0, got.Total)
}

func TestAddExpenseInsufficientFunds(t *testing.T) {
	svc := &mockExpenseService{
		addFn: func(string, services.ExpenseInput) (models.Expense, error) {
			return models.Expense{}, services.ErrInsufficientFunds
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodPost, "/expenses/", validExpenseBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Insufficient capital balance")
}

func TestAddExpenseInvalidBody(t *testing.T) {
	router := newExpenseTestRouter(&mockExpenseService{}, "u1")

	body := validExpenseBody()
	body["price"] = -5
	w := doRequest(router, http.MethodPost, "/expenses/", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddExpenseServiceFailure(t *testing.T) {
	svc := &mockExpenseService{
		addFn: func(string, services.ExpenseInput) (models.Expense, error) {
			return models.Expense{}, fmt.Errorf("disk on fire")
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodPost, "/expenses/", validExpenseBody())
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetExpenseOK(t *testing.T) {
	svc := &mockExpenseService{
		getFn: func(userID, expenseID string) (models.Expense, error) {
			assert.Equal(t, "e1", expenseID)
			return models.Expense{ID: expenseID, UserID: userID}, nil
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodGet, "/expenses/e1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetExpenseNotFound(t *testing.T) {
	svc := &mockExpenseService{
		getFn: func(string, string) (models.Expense, error) {
			return models.Expense{}, services.ErrNotFound
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodGet, "/expenses/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEditExpenseStatuses(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"insufficient", services.ErrInsufficientFunds, http.StatusBadRequest},
		{"unexpected", fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockExpenseService{
				editFn: func(userID, expenseID string, in services.ExpenseInput) (models.Expense, error) {
					if tt.err != nil {
						return models.Expense{}, tt.err
					}
					return models.Expense{ID: expenseID}, nil
				},
			}
			router := newExpenseTestRouter(svc, "u1")

			w := doRequest(router, http.MethodPut, "/expenses/e1", validExpenseBody())
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestDeleteExpenseReturnsDeletedRecord(t *testing.T) {
	svc := &mockExpenseService{
		deleteFn: func(userID, expenseID string) (models.Expense, error) {
			return models.Expense{ID: expenseID, Total: 42}, nil
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodDelete, "/expenses/e1", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, 42.0, got.Total)
}

func TestDeleteExpenseNotFound(t *testing.T) {
	svc := &mockExpenseService{
		deleteFn: func(string, string) (models.Expense, error) {
			return models.Expense{}, services.ErrNotFound
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodDelete, "/expenses/e1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCountAndTotal(t *testing.T) {
	svc := &mockExpenseService{
		countFn: func(string) (int, error) { return 7, nil },
		totalFn: func(string) (float64, error) { return 123.5, nil },
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodGet, "/expenses/count", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"count":7}`, w.Body.String())

	w = doRequest(router, http.MethodGet, "/expenses/total", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":123.5}`, w.Body.String())
}

func TestListAndSummary(t *testing.T) {
	now := time.Now()
	svc := &mockExpenseService{
		listFn: func(string) ([]models.Expense, error) {
			return []models.Expense{{ID: "e2", Date: now}, {ID: "e1", Date: now.Add(-time.Hour)}}, nil
		},
		summaryFn: func(string) ([]models.ExpensePoint, error) {
			return []models.ExpensePoint{{Total: 10, Date: now.Add(-time.Hour)}, {Total: 20, Date: now}}, nil
		},
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodGet, "/expenses/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var list []models.Expense
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID)

	w = doRequest(router, http.MethodGet, "/expenses/summary", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var points []models.ExpensePoint
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &points))
	require.Len(t, points, 2)
	assert.Equal(t, 10.0, points[0].Total)
}

func TestListFailure(t *testing.T) {
	svc := &mockExpenseService{
		listFn: func(string) ([]models.Expense, error) { return nil, fmt.Errorf("boom") },
	}
	router := newExpenseTestRouter(svc, "u1")

	w := doRequest(router, http.MethodGet, "/expenses/", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
