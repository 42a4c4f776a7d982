package models

import "time"

// Category groups products for browsing.
type Category struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	IsDeleted bool      `gorm:"column:is_deleted;not null;default:false"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Category) TableName() string { return "categories" }
