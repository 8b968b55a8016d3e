package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rskdev/pettycash-be/internal/models"
)

// ExpenseInput carries the mutable fields of an expense for create and edit.
type ExpenseInput struct {
	Title       string
	Category    string
	Date        time.Time
	Price       float64
	Quantity    int
	Description string
}

// ExpenseServiceProvider defines the interface for expense services.
type ExpenseServiceProvider interface {
	AddExpense(userID string, in ExpenseInput) (models.Expense, error)
	GetExpense(userID, expenseID string) (models.Expense, error)
	EditExpense(userID, expenseID string, in ExpenseInput) (models.Expense, error)
	DeleteExpense(userID, expenseID string) (models.Expense, error)
	CountExpenses(userID string) (int, error)
	CumulativeTotal(userID string) (float64, error)
	ListExpenses(userID string) ([]models.Expense, error)
	ListExpenseSummary(userID string) ([]models.ExpensePoint, error)
}

// ExpenseService provides business logic for expenses and the capital balance
// they draw from. The expense write and the balance write always happen inside
// one transaction so the two can never diverge on a crash.
type ExpenseService struct {
	db *sql.DB
}

// NewExpenseService creates a new ExpenseService.
func NewExpenseService(db *sql.DB) *ExpenseService {
	return &ExpenseService{db: db}
}

const expenseColumns = "id, user_id, title, category, date, price, quantity, description, total, created_at"

func scanExpense(row interface{ Scan(...any) error }) (models.Expense, error) {
	var e models.Expense
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Category, &e.Date,
		&e.Price, &e.Quantity, &e.Description, &e.Total, &e.CreatedAt)
	return e, err
}

// capitalForUpdate loads the user's capital row inside the given transaction.
func capitalForUpdate(tx *sql.Tx, userID string) (models.Capital, error) {
	var c models.Capital
	row := tx.QueryRow("SELECT id, user_id, balance FROM capitals WHERE user_id = ?", userID)
	err := row.Scan(&c.ID, &c.UserID, &c.Balance)
	if err == sql.ErrNoRows {
		return models.Capital{}, ErrNotFound
	}
	return c, err
}

// AddExpense records a new expense and debits the user's capital.
func (s *ExpenseService) AddExpense(userID string, in ExpenseInput) (models.Expense, error) {
	total := in.Price * float64(in.Quantity)

	tx, err := s.db.Begin()
	if err != nil {
		return models.Expense{}, err
	}
	defer tx.Rollback()

	capital, err := capitalForUpdate(tx, userID)
	if err == ErrNotFound {
		return models.Expense{}, ErrInsufficientFunds
	}
	if err != nil {
		return models.Expense{}, err
	}
	if capital.Balance < total {
		return models.Expense{}, ErrInsufficientFunds
	}

	expense := models.Expense{
		ID:          uuid.New().String(),
		UserID:      userID,
		Title:       in.Title,
		Category:    in.Category,
		Date:        in.Date,
		Price:       in.Price,
		Quantity:    in.Quantity,
		Description: in.Description,
		Total:       total,
		CreatedAt:   time.Now(),
	}

	_, err = tx.Exec(
		"INSERT INTO expenses (id, user_id, title, category, date, price, quantity, description, total, created_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		expense.ID, expense.UserID, expense.Title, expense.Category, expense.Date,
		expense.Price, expense.Quantity, expense.Description, expense.Total, expense.CreatedAt,
	)
	if err != nil {
		return models.Expense{}, err
	}

	_, err = tx.Exec("UPDATE capitals SET balance = balance - ? WHERE user_id = ?", total, userID)
	if err != nil {
		return models.Expense{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// GetExpense retrieves a single expense owned by the user.
func (s *ExpenseService) GetExpense(userID, expenseID string) (models.Expense, error) {
	row := s.db.QueryRow(
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?",
		expenseID, userID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	return expense, err
}

// EditExpense replaces every mutable field of an expense and applies the
// signed balance delta (newTotal - oldTotal) to the user's capital.
func (s *ExpenseService) EditExpense(userID, expenseID string, in ExpenseInput) (models.Expense, error) {
	newTotal := in.Price * float64(in.Quantity)

	tx, err := s.db.Begin()
	if err != nil {
		return models.Expense{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?",
		expenseID, userID,
	)
	existing, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, err
	}

	capital, err := capitalForUpdate(tx, userID)
	if err != nil {
		return models.Expense{}, err
	}

	// Balance as if this expense were refunded.
	available := capital.Balance + existing.Total
	if available < newTotal {
		return models.Expense{}, ErrInsufficientFunds
	}

	_, err = tx.Exec("UPDATE capitals SET balance = balance - ? WHERE user_id = ?",
		newTotal-existing.Total, userID)
	if err != nil {
		return models.Expense{}, err
	}

	updated := existing
	updated.Title = in.Title
	updated.Category = in.Category
	updated.Date = in.Date
	updated.Price = in.Price
	updated.Quantity = in.Quantity
	updated.Description = in.Description
	updated.Total = newTotal

	_, err = tx.Exec(
		"UPDATE expenses SET title = ?, category = ?, date = ?, price = ?, quantity = ?, description = ?, total = ? WHERE id = ? AND user_id = ?",
		updated.Title, updated.Category, updated.Date, updated.Price,
		updated.Quantity, updated.Description, updated.Total, expenseID, userID,
	)
	if err != nil {
		return models.Expense{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Expense{}, err
	}
	return updated, nil
}

// DeleteExpense removes an expense and credits its total back to the user's
// capital. A missing capital row is an orphaned account state: reported, not
// auto-repaired.
func (s *ExpenseService) DeleteExpense(userID, expenseID string) (models.Expense, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Expense{}, err
	}
	defer tx.Rollback()

	row := tx.QueryRow(
		"SELECT "+expenseColumns+" FROM expenses WHERE id = ? AND user_id = ?",
		expenseID, userID,
	)
	expense, err := scanExpense(row)
	if err == sql.ErrNoRows {
		return models.Expense{}, ErrNotFound
	}
	if err != nil {
		return models.Expense{}, err
	}

	if _, err := capitalForUpdate(tx, userID); err != nil {
		if err == ErrNotFound {
			log.Error().Str("user_id", userID).Msg("Capital record missing for user with expenses")
			return models.Expense{}, fmt.Errorf("capital: %w", ErrNotFound)
		}
		return models.Expense{}, err
	}

	_, err = tx.Exec("DELETE FROM expenses WHERE id = ? AND user_id = ?", expenseID, userID)
	if err != nil {
		return models.Expense{}, err
	}

	_, err = tx.Exec("UPDATE capitals SET balance = balance + ? WHERE user_id = ?", expense.Total, userID)
	if err != nil {
		return models.Expense{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Expense{}, err
	}
	return expense, nil
}

// CountExpenses returns the number of expense records for the user.
func (s *ExpenseService) CountExpenses(userID string) (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM expenses WHERE user_id = ?", userID).Scan(&count)
	return count, err
}

// CumulativeTotal sums the totals of the user's current expenses. It is
// recomputed fresh on every call, independent of the incrementally maintained
// capital balance.
func (s *ExpenseService) CumulativeTotal(userID string) (float64, error) {
	var total float64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(total), 0) FROM expenses WHERE user_id = ?", userID,
	).Scan(&total)
	return total, err
}

// ListExpenses returns all of the user's expenses, newest date first.
func (s *ExpenseService) ListExpenses(userID string) ([]models.Expense, error) {
	rows, err := s.db.Query(
		"SELECT "+expenseColumns+" FROM expenses WHERE user_id = ? ORDER BY date DESC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// ListExpenseSummary returns the total+date projection for charting, oldest
// date first.
func (s *ExpenseService) ListExpenseSummary(userID string) ([]models.ExpensePoint, error) {
	rows, err := s.db.Query(
		"SELECT total, date FROM expenses WHERE user_id = ? ORDER BY date ASC",
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var points []models.ExpensePoint
	for rows.Next() {
		var p models.ExpensePoint
		if err := rows.Scan(&p.Total, &p.Date); err != nil {
			return nil, err
		}
		points = append(points, p)
	}
	return points, rows.Err()
}
