package dbutil

import (
	"fmt"

	"gorm.io/gorm"
)

// ReplaceMembers rewrites the join rows of one owner inside tx so that the
// owner is linked to exactly memberIDs. Repeated IDs are written once. It
// fails without touching the join table when any member is missing from the
// table of memberModel.
func ReplaceMembers(tx *gorm.DB, table, ownerColumn, memberColumn string, ownerID uint, memberModel any, memberIDs []uint) error {
	ids := unique(memberIDs)

	if len(ids) > 0 {
		var found int64
		if err := tx.Model(memberModel).Where("id IN ?", ids).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(ids)) {
			return fmt.Errorf("replace %s: %d of %d members do not exist", table, int64(len(ids))-found, len(ids))
		}
	}

	if err := tx.Exec("DELETE FROM "+table+" WHERE "+ownerColumn+" = ?", ownerID).Error; err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}
	for _, memberID := range ids {
		err := tx.Exec("INSERT INTO "+table+" ("+ownerColumn+", "+memberColumn+") VALUES (?, ?)", ownerID, memberID).Error
		if err != nil {
			return fmt.Errorf("insert %s: %w", table, err)
		}
	}
	return nil
}

func unique(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
