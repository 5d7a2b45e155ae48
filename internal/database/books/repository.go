// Package books provides database operations for books.
//
// # Usage
//
//	repo := books.NewRepository(db)
//	books, err := repo.SearchBooksByAuthor("Orwell")
package books

import (
	"gorm.io/gorm"

	"github.com/mrlokans/university/internal/database/dbutil"
	"github.com/mrlokans/university/internal/entities"
)

// Repository handles book database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new books repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// GetBookByID retrieves a book with the subjects that list it.
func (r *Repository) GetBookByID(id uint) (*entities.Book, error) {
	var book entities.Book
	err := r.db.Preload("Subjects", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&book, id).Error
	if err != nil {
		return nil, err
	}
	return &book, nil
}

// GetAllBooks retrieves every book ordered by ID.
func (r *Repository) GetAllBooks() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Order("id ASC").Find(&books).Error
	return books, err
}

// SearchBooksByAuthor returns books whose author contains fragment. Case
// sensitivity follows the store's LIKE operator.
func (r *Repository) SearchBooksByAuthor(fragment string) ([]entities.Book, error) {
	books := []entities.Book{}
	err := r.db.Where("author LIKE ? ESCAPE '"+dbutil.LikeEscape+"'", dbutil.ContainsPattern(fragment)).
		Order("id ASC").
		Find(&books).Error
	return books, err
}

// SaveBook creates or updates a book's own fields. Subject memberships are
// owned by the subject side and left untouched.
func (r *Repository) SaveBook(book *entities.Book) error {
	return dbutil.SaveRecord(r.db, book, book.ID)
}

// DeleteBook removes a book and its subject memberships.
func (r *Repository) DeleteBook(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM subject_books WHERE book_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&entities.Book{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
