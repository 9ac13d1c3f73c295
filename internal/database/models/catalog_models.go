package models

import "time"

type User struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string     `gorm:"not null" json:"name"`
	Email     string     `gorm:"uniqueIndex;not null" json:"email"`
	Password  string     `gorm:"not null" json:"-"`
	Phone     string     `json:"phone,omitempty"`
	Role      string     `gorm:"type:varchar(16);not null;default:'client'" json:"role"`
	IsActive  bool       `gorm:"default:true" json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

func (u User) IsAdmin() bool {
	return u.Role == "admin"
}

type Category struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(128);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string   `gorm:"type:varchar(256)" json:"image_url,omitempty"`
	IsActive    bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Dish struct {
	ID              int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name            string    `gorm:"type:varchar(128);not null" json:"name"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Price           float64   `gorm:"not null" json:"price"`
	CategoryID      *int64    `gorm:"index" json:"category_id,omitempty"`
	ImageURL        *string   `gorm:"type:varchar(256)" json:"image_url,omitempty"`
	Available       bool      `gorm:"not null;default:true" json:"available"`
	PrepTimeMinutes int32     `gorm:"default:0" json:"prep_time_minutes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
}

type MenuOfTheDay struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `gorm:"type:varchar(128);not null" json:"title"`
	Date      time.Time `gorm:"index;not null" json:"date"`
	Price     *float64  `json:"price,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Dishes []Dish `gorm:"many2many:menu_dishes" json:"dishes,omitempty"`
}
