package models

import "time"

// User is a storefront account. Soft-deleted rows stay in place for order history.
type User struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;not null"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false"`
	Cart      *Cart     `gorm:"foreignKey:UserID"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string { return "users" }
