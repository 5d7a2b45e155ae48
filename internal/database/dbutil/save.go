package dbutil

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SaveRecord inserts record when id is zero and otherwise updates every
// column of the existing row. Unlike gorm's Save it never falls back to an
// insert: updating a row that no longer exists returns gorm.ErrRecordNotFound.
// Associations are left alone.
func SaveRecord(tx *gorm.DB, record any, id uint) error {
	if id == 0 {
		return tx.Omit(clause.Associations).Create(record).Error
	}

	result := tx.Model(record).Select("*").Omit(clause.Associations).Updates(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
