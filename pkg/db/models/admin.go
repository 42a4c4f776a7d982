package models

import "time"

// Admin is a console operator account, kept separate from storefront users.
type Admin struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;uniqueIndex"`
	Password  string    `gorm:"column:password;not null"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Admin) TableName() string { return "admins" }
