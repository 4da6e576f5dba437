package repository

import (
	"database/sql"
	"fmt"
	"time"

	"linguatrail/internal/database"
	"linguatrail/internal/models"
)

// TransactionRepository handles database operations for purchase records
type TransactionRepository struct {
	db *database.DB
}

// NewTransactionRepository creates a new transaction repository
func NewTransactionRepository(db *database.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

const transactionColumns = "id, user_id, amount, description, payment_method, status, payment_token, created_at, completed_at"

func scanTransaction(row interface{ Scan(...interface{}) error }) (*models.Transaction, error) {
	tx := &models.Transaction{}
	var paymentToken sql.NullString
	var completedAt sql.NullTime

	err := row.Scan(
		&tx.ID,
		&tx.UserID,
		&tx.Amount,
		&tx.Description,
		&tx.PaymentMethod,
		&tx.Status,
		&paymentToken,
		&tx.CreatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	tx.PaymentToken = paymentToken.String
	if completedAt.Valid {
		t := completedAt.Time
		tx.CompletedAt = &t
	}

	return tx, nil
}

// Create inserts a transaction and returns it with its assigned ID
func (r *TransactionRepository) Create(tx *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, amount, description, payment_method, status, payment_token)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	id, err := r.db.ExecReturningID(query,
		tx.UserID, tx.Amount, tx.Description, tx.PaymentMethod, tx.Status, nullable(tx.PaymentToken))
	if err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	return r.GetByID(id)
}

// UpdateStatus moves a transaction through its lifecycle, stamping the
// completion time when it reaches a terminal state
func (r *TransactionRepository) UpdateStatus(id int64, status models.TransactionStatus, completedAt *time.Time) error {
	query := "UPDATE transactions SET status = ?, completed_at = ? WHERE id = ?"
	_, err := r.db.Exec(query, status, completedAt, id)
	if err != nil {
		return fmt.Errorf("failed to update transaction status: %w", err)
	}
	return nil
}

// GetByID retrieves a transaction by ID
func (r *TransactionRepository) GetByID(id int64) (*models.Transaction, error) {
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE id = ?", transactionColumns)

	tx, err := scanTransaction(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return tx, nil
}

// ListAll retrieves every transaction, newest first
func (r *TransactionRepository) ListAll() ([]models.Transaction, error) {
	query := fmt.Sprintf("SELECT %s FROM transactions ORDER BY id DESC", transactionColumns)
	return r.queryTransactions(query)
}

// ListByUser retrieves a user's transactions, newest first
func (r *TransactionRepository) ListByUser(userID int64) ([]models.Transaction, error) {
	query := fmt.Sprintf("SELECT %s FROM transactions WHERE user_id = ? ORDER BY id DESC", transactionColumns)
	return r.queryTransactions(query, userID)
}

func (r *TransactionRepository) queryTransactions(query string, args ...interface{}) ([]models.Transaction, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, *tx)
	}

	return transactions, rows.Err()
}
