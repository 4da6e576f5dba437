package service

import (
	"errors"
	"testing"
	"time"

	"linguatrail/internal/models"
)

func TestBuyLives(t *testing.T) {
	t.Run("spends diamonds and refills lives", func(t *testing.T) {
		next := time.Now().Add(10 * time.Minute)
		user := &models.User{ID: 1, Username: "ade", Diamonds: 20, Lives: 1, NextLifeAt: &next}
		users := newMemUsers(user)
		transactions := newMemTransactions()
		svc := NewShopService(users, transactions, NewLifePolicy())

		updated, err := svc.BuyLives(1, 15)
		if err != nil {
			t.Fatalf("Expected no error, got %v", err)
		}
		if updated.Diamonds != 5 {
			t.Errorf("Expected 5 diamonds left, got %d", updated.Diamonds)
		}
		if updated.Lives != MaxLives {
			t.Errorf("Expected full lives, got %d", updated.Lives)
		}
		if updated.NextLifeAt != nil {
			t.Error("Expected regen timer cleared")
		}

		if len(transactions.transactions) != 1 {
			t.Fatalf("Expected one transaction, got %d", len(transactions.transactions))
		}
		tx := transactions.transactions[0]
		if tx.PaymentMethod != models.PaymentDiamonds || tx.Status != models.TransactionCompleted {
			t.Errorf("Expected completed DIAMONDS transaction, got %+v", tx)
		}
		if tx.Amount != 0 {
			t.Errorf("Expected zero money amount, got %f", tx.Amount)
		}
	})

	t.Run("insufficient balance", func(t *testing.T) {
		users := newMemUsers(&models.User{ID: 1, Diamonds: 5, Lives: 1})
		transactions := newMemTransactions()
		svc := NewShopService(users, transactions, NewLifePolicy())

		if _, err := svc.BuyLives(1, 10); !errors.Is(err, ErrInsufficientDiamonds) {
			t.Errorf("Expected ErrInsufficientDiamonds, got %v", err)
		}
		if len(transactions.transactions) != 0 {
			t.Error("Expected no transaction recorded on rejection")
		}
	})

	t.Run("non-positive price", func(t *testing.T) {
		svc := NewShopService(newMemUsers(&models.User{ID: 1}), newMemTransactions(), NewLifePolicy())
		if _, err := svc.BuyLives(1, 0); !errors.Is(err, ErrInsufficientDiamonds) {
			t.Errorf("Expected ErrInsufficientDiamonds, got %v", err)
		}
	})
}

func TestProcessPurchase(t *testing.T) {
	tests := []struct {
		name    string
		amount  float64
		awarded int
	}{
		{"small band", 10, 100},
		{"band boundary", 15, 100},
		{"medium band", 25, 250},
		{"large band", 50, 500},
		{"top band", 99, 1000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := newMemUsers(&models.User{ID: 1, Username: "ade", Diamonds: 7})
			transactions := newMemTransactions()
			svc := NewShopService(users, transactions, NewLifePolicy())

			result, err := svc.ProcessPurchase(1, models.PaymentGooglePay, tt.amount, "tok-123")
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if result.DiamondsAwarded != tt.awarded {
				t.Errorf("Expected %d diamonds awarded, got %d", tt.awarded, result.DiamondsAwarded)
			}
			if result.Balance != 7+tt.awarded {
				t.Errorf("Expected balance %d, got %d", 7+tt.awarded, result.Balance)
			}
			if result.Transaction.Status != models.TransactionCompleted || result.Transaction.CompletedAt == nil {
				t.Errorf("Expected completed transaction, got %+v", result.Transaction)
			}

			user, _ := users.GetUserByID(1)
			if user.Diamonds != 7+tt.awarded {
				t.Errorf("Expected stored balance %d, got %d", 7+tt.awarded, user.Diamonds)
			}
		})
	}

	t.Run("unknown user", func(t *testing.T) {
		svc := NewShopService(newMemUsers(), newMemTransactions(), NewLifePolicy())
		if _, err := svc.ProcessPurchase(9, models.PaymentGooglePay, 10, ""); !errors.Is(err, ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}
