package models

type Genre struct {
	GenreID   uint   `gorm:"primaryKey;autoIncrement" json:"genre_id"`
	GenreName string `gorm:"uniqueIndex;not null" json:"genre_name"`
}

func (Genre) TableName() string {
	return "genres"
}

// BookGenre is the association row between books and genres.
type BookGenre struct {
	BookID  uint `gorm:"primaryKey" json:"book_id"`
	GenreID uint `gorm:"primaryKey" json:"genre_id"`
}

func (BookGenre) TableName() string {
	return "book_genres"
}

type CreateGenreRequest struct {
	GenreName string `json:"genre_name" binding:"required,min=3,max=30"`
}
