package database

import "shayarihub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM
// models. Users come first so relations resolve against an existing table.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Shayari{},
		&models.Like{},
		&models.Report{},
	}
}
