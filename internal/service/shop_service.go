package service

import (
	"sync"
	"time"

	"linguatrail/internal/models"
)

// ShopService exchanges diamonds for lives and processes simulated
// real-money diamond purchases. Every exchange leaves a transaction row
type ShopService struct {
	users        UserStore
	transactions TransactionStore
	lives        *LifePolicy
	now          func() time.Time

	locks sync.Map
}

// NewShopService creates a new shop service
func NewShopService(users UserStore, transactions TransactionStore, lives *LifePolicy) *ShopService {
	return &ShopService{
		users:        users,
		transactions: transactions,
		lives:        lives,
		now:          time.Now,
	}
}

func (s *ShopService) lockUser(userID int64) func() {
	v, _ := s.locks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// BuyLives spends the given number of diamonds to refill the user to
// full lives. Returns ErrInsufficientDiamonds when the balance does not
// cover the price
func (s *ShopService) BuyLives(userID int64, diamonds int) (*models.User, error) {
	if diamonds <= 0 {
		return nil, ErrInsufficientDiamonds
	}

	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Diamonds < diamonds {
		return nil, ErrInsufficientDiamonds
	}

	if err := s.users.AddDiamonds(userID, -diamonds); err != nil {
		return nil, err
	}
	user.Diamonds -= diamonds

	s.lives.Refill(user)
	if err := s.users.UpdateLives(userID, user.Lives, user.NextLifeAt); err != nil {
		return nil, err
	}

	completedAt := s.now()
	_, err = s.transactions.Create(&models.Transaction{
		UserID:        userID,
		Amount:        0, // no real money involved
		Description:   "Lives refill purchased with diamonds",
		PaymentMethod: models.PaymentDiamonds,
		Status:        models.TransactionCompleted,
		CompletedAt:   &completedAt,
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// diamondsForAmount maps a purchase amount to the diamonds awarded
func diamondsForAmount(amount float64) int {
	switch {
	case amount <= 15:
		return 100
	case amount <= 30:
		return 250
	case amount <= 50:
		return 500
	default:
		return 1000
	}
}

// PurchaseResult reports a processed diamond purchase
type PurchaseResult struct {
	Transaction     *models.Transaction
	DiamondsAwarded int
	Balance         int
}

// ProcessPurchase records a real-money diamond purchase. The payment
// gateway is simulated: the transaction is created pending, diamonds
// are awarded by amount band, and the transaction is then completed
func (s *ShopService) ProcessPurchase(userID int64, method models.PaymentMethod, amount float64, paymentToken string) (*PurchaseResult, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	user, err := s.users.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	tx, err := s.transactions.Create(&models.Transaction{
		UserID:        userID,
		Amount:        amount,
		Description:   "Diamond purchase",
		PaymentMethod: method,
		Status:        models.TransactionPending,
		PaymentToken:  paymentToken,
	})
	if err != nil {
		return nil, err
	}

	awarded := diamondsForAmount(amount)
	if err := s.users.AddDiamonds(userID, awarded); err != nil {
		return nil, err
	}

	completedAt := s.now()
	if err := s.transactions.UpdateStatus(tx.ID, models.TransactionCompleted, &completedAt); err != nil {
		return nil, err
	}
	tx.Status = models.TransactionCompleted
	tx.CompletedAt = &completedAt

	return &PurchaseResult{
		Transaction:     tx,
		DiamondsAwarded: awarded,
		Balance:         user.Diamonds + awarded,
	}, nil
}

// GetUserTransactions lists a user's purchase history
func (s *ShopService) GetUserTransactions(userID int64) ([]models.Transaction, error) {
	return s.transactions.ListByUser(userID)
}
