package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"go-bookstore/internal/mail"
	"go-bookstore/internal/metrics"
	"go-bookstore/internal/models"
)

// OrderService converts a basket snapshot into an immutable order,
// debiting catalog stock in one atomic unit. An order either fully
// commits (order row, item rows, stock debits, basket cleared) or
// leaves no trace.
type OrderService struct {
	db       *gorm.DB
	notifier mail.Notifier
	metrics  *metrics.OrderMetrics
	log      *slog.Logger
}

func NewOrderService(db *gorm.DB, notifier mail.Notifier, m *metrics.OrderMetrics, log *slog.Logger) *OrderService {
	return &OrderService{db: db, notifier: notifier, metrics: m, log: log}
}

// Create places an order from the user's current basket.
func (s *OrderService) Create(ctx context.Context, userID uint, deliveryMethod string) (*models.Order, error) {
	var items []models.BasketItem
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error; err != nil {
		s.metrics.Failed.Inc()
		return nil, fmt.Errorf("read basket: %w", err)
	}
	return s.CreateFromSnapshot(ctx, userID, deliveryMethod, items)
}

// CreateFromSnapshot places an order from an explicit list of basket
// lines. The basket table's composite key stores at most one row per
// (user, book), but a snapshot from a less trusted boundary may carry
// duplicates, so lines are aggregated per book before the supply
// check: two lines that are individually within supply cannot jointly
// overdraw it.
//
// Validation happens before any mutation: the user must exist, be
// enabled, and have every delivery contact field populated; the
// snapshot must be non-empty; every referenced book must exist with
// sufficient supply for the aggregated quantity. The
// insert-insert-debit-clear sequence then runs in a single
// transaction, and the confirmation email is handed off after commit
// without blocking the caller.
func (s *OrderService) CreateFromSnapshot(ctx context.Context, userID uint, deliveryMethod string, items []models.BasketItem) (*models.Order, error) {
	user, err := s.loadUserForOrder(ctx, userID)
	if err != nil {
		s.metrics.Rejected.Inc()
		return nil, err
	}

	if len(items) == 0 {
		s.metrics.Rejected.Inc()
		return nil, ErrBasketEmpty
	}

	// Aggregate quantity per book before the supply check. Two rows
	// for the same book that are individually within supply must not
	// jointly overdraw it.
	quantities := make(map[uint]int, len(items))
	bookIDs := make([]uint, 0, len(items))
	for _, item := range items {
		if _, seen := quantities[item.BookID]; !seen {
			bookIDs = append(bookIDs, item.BookID)
		}
		quantities[item.BookID] += item.Quantity
	}

	var (
		order    models.Order
		bookByID map[uint]models.Book
	)
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var books []models.Book
		if err := tx.Where("book_id IN ?", bookIDs).Find(&books).Error; err != nil {
			return err
		}
		bookByID = make(map[uint]models.Book, len(books))
		for _, b := range books {
			bookByID[b.BookID] = b
		}

		total := decimal.Zero
		for _, id := range bookIDs {
			book, ok := bookByID[id]
			if !ok {
				return &BookNotFoundError{BookID: id}
			}
			qty := quantities[id]
			if qty > book.Supply {
				return &InsufficientSupplyError{
					BookID:    book.BookID,
					BookName:  book.BookName,
					Requested: qty,
					Available: book.Supply,
				}
			}
			total = total.Add(book.BookPrice.Mul(decimal.NewFromInt(int64(qty))))
		}

		order = models.Order{
			UserID:         userID,
			DeliveryMethod: deliveryMethod,
			Status:         models.OrderStatusPending,
			TotalCost:      total,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems := make([]models.OrderItem, 0, len(bookIDs))
		for _, id := range bookIDs {
			orderItems = append(orderItems, models.OrderItem{
				OrderID:  order.OrderID,
				BookID:   id,
				Quantity: quantities[id],
			})
		}
		if err := tx.Omit("Book").Create(&orderItems).Error; err != nil {
			return err
		}

		for _, id := range bookIDs {
			if err := debitStock(tx, id, quantities[id]); err != nil {
				return err
			}
		}

		// Placing any order empties the whole basket, not just the
		// ordered lines.
		return tx.Where("user_id = ?", userID).Delete(&models.BasketItem{}).Error
	})
	if txErr != nil {
		var notFound *BookNotFoundError
		var short *InsufficientSupplyError
		if errors.As(txErr, &notFound) || errors.As(txErr, &short) {
			s.metrics.Rejected.Inc()
			return nil, txErr
		}
		s.metrics.Failed.Inc()
		return nil, fmt.Errorf("create order: %w", txErr)
	}

	s.metrics.Placed.Inc()
	s.dispatchConfirmation(user.Email, order, bookIDs, quantities, bookByID)
	return &order, nil
}

// dispatchConfirmation hands the committed order to the notifier in
// the background. Failures are logged, never surfaced: the order
// already exists and must not be affected.
func (s *OrderService) dispatchConfirmation(email string, order models.Order, bookIDs []uint, quantities map[uint]int, bookByID map[uint]models.Book) {
	lines := make([]mail.OrderLine, 0, len(bookIDs))
	for _, id := range bookIDs {
		book := bookByID[id]
		lines = append(lines, mail.OrderLine{
			BookName: book.BookName,
			Quantity: quantities[id],
			Price:    book.BookPrice,
		})
	}
	msg := mail.OrderConfirmation{
		EventID:   uuid.New(),
		Email:     email,
		OrderID:   order.OrderID,
		TotalCost: order.TotalCost,
		Items:     lines,
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.notifier.SendOrderConfirmation(ctx, msg); err != nil {
			s.log.Error("order confirmation delivery failed",
				"event_id", msg.EventID.String(), "order_id", msg.OrderID, "error", err)
		}
	}()
}

func (s *OrderService) loadUserForOrder(ctx context.Context, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.Disabled {
		return nil, ErrUserDisabled
	}

	required := []struct {
		name  string
		value string
	}{
		{"email", user.Email},
		{"first_name", user.FirstName},
		{"second_name", user.SecondName},
		{"street_address", user.StreetAddress},
		{"city", user.City},
		{"state", user.State},
		{"postal_code", user.PostalCode},
		{"country", user.Country},
		{"phone_number", user.PhoneNumber},
	}
	for _, f := range required {
		if f.value == "" {
			return nil, &UserDataIncompleteError{Field: f.name}
		}
	}
	return &user, nil
}

// Get returns one order with its items and books attached.
func (s *OrderService) Get(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Book").
		First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// GetUserOrders returns the user's orders, newest first, with items
// and books eagerly attached.
func (s *OrderService) GetUserOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Items.Book").
		Where("user_id = ?", userID).
		Order("created_at desc").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("get user orders: %w", err)
	}
	return orders, nil
}

// SetStatus unconditionally overwrites the order status. Any status
// may follow any status; there is no transition graph.
func (s *OrderService) SetStatus(ctx context.Context, orderID uint, status string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).First(&order, "order_id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}

	order.Status = status
	if err := s.db.WithContext(ctx).Model(&order).Update("status", status).Error; err != nil {
		return nil, fmt.Errorf("set order status: %w", err)
	}
	return &order, nil
}
