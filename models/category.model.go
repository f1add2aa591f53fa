package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null;unique" json:"name"`

	Products     []Product `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	ProductCount int64     `gorm:"-" json:"productCount"`
}
