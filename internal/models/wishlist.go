package models

// WishlistEntry is a pure existence record: a user saved a book for
// later. No quantity, no stock effect.
type WishlistEntry struct {
	UserID uint `gorm:"primaryKey;autoIncrement:false" json:"user_id"`
	BookID uint `gorm:"primaryKey;autoIncrement:false" json:"book_id"`
}

func (WishlistEntry) TableName() string {
	return "user_books"
}
