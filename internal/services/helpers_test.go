package services_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"go-bookstore/internal/database"
	"go-bookstore/internal/mail"
	"go-bookstore/internal/metrics"
	"go-bookstore/internal/models"
	"go-bookstore/internal/services"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A :memory: database exists per connection; pin the pool to one
	// so every query and transaction sees the same schema.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// recordingNotifier captures confirmation hand-offs for assertions.
type recordingNotifier struct {
	mu   sync.Mutex
	sent []mail.OrderConfirmation
}

func (n *recordingNotifier) SendOrderConfirmation(ctx context.Context, msg mail.OrderConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, msg)
	return nil
}

func (n *recordingNotifier) confirmations() []mail.OrderConfirmation {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]mail.OrderConfirmation, len(n.sent))
	copy(out, n.sent)
	return out
}

func newOrderService(t *testing.T, db *gorm.DB) (*services.OrderService, *recordingNotifier, *metrics.OrderMetrics) {
	t.Helper()
	notifier := &recordingNotifier{}
	m := metrics.NewOrderMetrics(prometheus.NewRegistry())
	return services.NewOrderService(db, notifier, m, testLogger()), notifier, m
}

func seedBook(t *testing.T, db *gorm.DB, name, price string, supply int) models.Book {
	t.Helper()
	book := models.Book{
		BookName:        name,
		BookAuthor:      "Test Author",
		BookDescription: "A test book.",
		BookPrice:       decimal.RequireFromString(price),
		Supply:          supply,
	}
	require.NoError(t, db.Create(&book).Error)
	return book
}

// seedUser creates a verified user with all delivery fields populated.
func seedUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()
	user := models.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "x",
		Verified:       true,
		FirstName:      "Jo",
		SecondName:     "Reader",
		StreetAddress:  "1 Library Lane",
		City:           "Booktown",
		State:          "BK",
		PostalCode:     "12345",
		Country:        "Bookland",
		PhoneNumber:    "+100000000",
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func addBasketRow(t *testing.T, db *gorm.DB, userID, bookID uint, qty int) {
	t.Helper()
	require.NoError(t, db.Omit("Book").Create(&models.BasketItem{
		UserID:   userID,
		BookID:   bookID,
		Quantity: qty,
	}).Error)
}

func bookSupply(t *testing.T, db *gorm.DB, bookID uint) int {
	t.Helper()
	var book models.Book
	require.NoError(t, db.First(&book, "book_id = ?", bookID).Error)
	return book.Supply
}

func basketSize(t *testing.T, db *gorm.DB, userID uint) int {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.BasketItem{}).Where("user_id = ?", userID).Count(&count).Error)
	return int(count)
}

func countRows(t *testing.T, db *gorm.DB, model any) int {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return int(count)
}
