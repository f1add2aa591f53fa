package config

import (
	"log"

	"storefront_backend/models"

	"gorm.io/gorm"
)

// Tables in dependency order; ResetAndMigrate drops them in reverse.
func allModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.CartSession{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.OutboxEvent{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(allModels()...); err != nil {
		log.Printf("Failed to migrate database schema: %v", err)
		return err
	}

	log.Println("Database Migrations completed succesfully...")
	return nil
}

func ResetAndMigrate(db *gorm.DB) error {
	tables := allModels()
	reversed := make([]interface{}, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		reversed = append(reversed, tables[i])
	}

	if err := db.Migrator().DropTable(reversed...); err != nil {
		log.Printf("Failed to drop tables: %v", err)
		return err
	}

	log.Println("All tables dropped successfully.")

	if err := db.AutoMigrate(tables...); err != nil {
		log.Printf("Failed to auto migrate: %v", err)
		return err
	}

	if err := Seed(db); err != nil {
		return err
	}

	log.Println("Database reset and migration completed successfully.")
	return nil
}
