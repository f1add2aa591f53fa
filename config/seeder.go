package config

import (
	"errors"
	"log"

	"storefront_backend/models"
	"storefront_backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const seedPassword = "password123"

// Seed fills an empty catalog with demo users, categories and products.
// Existing rows are left alone, so it is safe to run on every start.
func Seed(db *gorm.DB) error {
	if err := SeedUsers(db); err != nil {
		return err
	}
	categories, err := SeedCategories(db)
	if err != nil {
		return err
	}
	return SeedProducts(db, categories)
}

func SeedUsers(db *gorm.DB) error {
	log.Println("🌱 Seeding users...")

	password, err := utils.HashPassword(seedPassword)
	if err != nil {
		return err
	}

	adminName, userName := "Administrator", "Demo User"
	users := []models.User{
		{Email: "admin@shop.com", Password: password, Name: &adminName, Role: models.RoleAdmin},
		{Email: "user@shop.com", Password: password, Name: &userName, Role: models.RoleUser},
	}

	for _, user := range users {
		var existingUser models.User
		err := db.Where("email = ?", user.Email).First(&existingUser).Error
		if err == nil {
			log.Printf("User already exists: %s", user.Email)
			continue
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if err := db.Create(&user).Error; err != nil {
			log.Printf("Failed to seed user %s: %v", user.Email, err)
			return err
		}
		log.Printf("User seeded: %s (ID: %d)", user.Email, user.ID)
	}
	return nil
}

// SeedCategories returns the seeded categories keyed by name.
func SeedCategories(db *gorm.DB) (map[string]models.Category, error) {
	log.Println("🌱 Seeding categories...")

	names := []string{"Electronics", "Clothing", "Books", "Home"}
	byName := make(map[string]models.Category, len(names))
	for _, name := range names {
		category := models.Category{Name: name}
		if err := db.Where(models.Category{Name: name}).FirstOrCreate(&category).Error; err != nil {
			log.Printf("Failed to seed category %s: %v", name, err)
			return nil, err
		}
		byName[name] = category
	}
	return byName, nil
}

type seedProduct struct {
	name, description, category, image string
	price                              int64
	stock                              int
}

var seedProducts = []seedProduct{
	{"Samsung Galaxy S24", "Flagship smartphone with a great camera", "Electronics", "photo-1511707171634-5f897ff02aa9", 79999, 15},
	{"Apple MacBook Air M2", "Light and powerful laptop for work and creativity", "Electronics", "photo-1517336714731-489689fd1ca8", 129999, 8},
	{"AirPods Pro", "Wireless earbuds with active noise cancellation", "Electronics", "photo-1600294037681-c80b4cb5b434", 24999, 25},
	{"Apple Watch Series 9", "Smart watch with health tracking", "Electronics", "photo-1546868871-7041f2a55e12", 44999, 12},
	{"iPad Air", "Thin tablet for study and entertainment", "Electronics", "photo-1544244015-0df4b3ffc6b0", 64999, 10},
	{"Basic cotton T-shirt", "Comfortable everyday T-shirt", "Clothing", "photo-1521572163474-6864f9cf17ab", 1299, 50},
	{"Straight-cut jeans", "Classic denim jeans", "Clothing", "photo-1542272604-787c3835535d", 3999, 30},
	{"Winter jacket", "Warm jacket for cold weather", "Clothing", "photo-1539533018447-63fcce2678e3", 8999, 20},
	{"Running sneakers", "Lightweight sneakers for sport", "Clothing", "photo-1542291026-7eec264c27ff", 5499, 35},
	{"Clean Code", "Robert C. Martin on writing maintainable code", "Books", "photo-1532012197267-da84d127e765", 1899, 40},
	{"1984 by George Orwell", "Dystopian classic", "Books", "photo-1544947950-fa07a98d237f", 799, 60},
	{"Detective stories, set of 3", "Three bestselling detective novels", "Books", "photo-1512820790803-83ca734da794", 2499, 25},
	{"Drip coffee maker", "Brews up to 10 cups", "Home", "photo-1495474472287-4d71bcdd2085", 4599, 18},
	{"Cookware set, 12 pieces", "Stainless steel pots and pans", "Home", "photo-1556911220-bff31c812dba", 6999, 22},
	{"Soft blanket 150x200", "Warm fleece blanket", "Home", "photo-1580301762395-21ce84d00bc6", 2299, 45},
	{"LED desk lamp", "Dimmable lamp with adjustable arm", "Home", "photo-1507473885765-e6ed057f782c", 3299, 28},
}

func SeedProducts(db *gorm.DB, categories map[string]models.Category) error {
	log.Println("🌱 Seeding products...")

	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Printf("Catalog already has %d products, skipping", count)
		return nil
	}

	products := make([]models.Product, 0, len(seedProducts))
	for _, p := range seedProducts {
		category, ok := categories[p.category]
		if !ok {
			continue
		}
		products = append(products, models.Product{
			Name:        p.name,
			Description: p.description,
			Price:       decimal.NewFromInt(p.price),
			Stock:       p.stock,
			CategoryID:  category.ID,
			ImageURL:    "https://images.unsplash.com/" + p.image + "?w=400",
		})
	}

	if err := db.Create(&products).Error; err != nil {
		log.Printf("Failed to seed products: %v", err)
		return err
	}

	log.Println("✅ Seeding complete.")
	return nil
}
