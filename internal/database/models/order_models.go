package models

import "time"

// Table is a physical table. The occupancy triple (Occupied, OccupiedAt,
// CurrentClientID) is set and cleared together, always through a guarded
// update so two clients cannot claim the same free table.
type Table struct {
	ID              int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number          string     `gorm:"type:varchar(16);not null;uniqueIndex:idx_restaurant_number" json:"number"`
	Capacity        int32      `gorm:"not null" json:"capacity"`
	RestaurantID    string     `gorm:"type:varchar(64);not null;default:'akounamatata_main';uniqueIndex:idx_restaurant_number" json:"restaurant_id"`
	Occupied        bool       `gorm:"not null;default:false" json:"occupied"`
	OccupiedAt      *time.Time `json:"occupied_at,omitempty"`
	CurrentClientID *int64     `json:"current_client_id,omitempty"`
	QRCode          *string    `gorm:"uniqueIndex" json:"qr_code,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	CurrentClient *User `gorm:"foreignKey:CurrentClientID" json:"current_client,omitempty"`
}

// Cart holds at most one active row per (client, table) pair. Total is
// derived from the items and recomputed on every mutation.
type Cart struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ClientID  int64     `gorm:"not null;index:idx_cart_client_active" json:"client_id"`
	TableID   int64     `gorm:"not null;index:idx_cart_table_active" json:"table_id"`
	Total     float64   `gorm:"not null;default:0" json:"total"`
	Currency  string    `gorm:"type:varchar(8);not null;default:'FCFA'" json:"currency"`
	Active    bool      `gorm:"not null;default:true;index:idx_cart_client_active;index:idx_cart_table_active" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
	Table *Table     `gorm:"foreignKey:TableID" json:"table,omitempty"`
}

type CartItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID    int64     `gorm:"not null;index" json:"cart_id"`
	DishID    int64     `gorm:"not null" json:"dish_id"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`

	Dish *Dish `gorm:"foreignKey:DishID" json:"dish,omitempty"`
}

// Order is the immutable snapshot created from a cart. Items and amounts are
// never edited after creation; only Status advances, through the state
// machine, with every change logged.
type Order struct {
	ID             int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Number         string     `gorm:"type:varchar(16);uniqueIndex;not null" json:"number"`
	ClientID       int64      `gorm:"not null;index" json:"client_id"`
	TableID        int64      `gorm:"not null;index" json:"table_id"`
	MenuOfTheDayID *int64     `json:"menu_of_the_day_id,omitempty"`
	Subtotal       float64    `gorm:"not null" json:"subtotal"`
	Tax            float64    `gorm:"not null;default:0" json:"tax"`
	Total          float64    `gorm:"not null" json:"total"`
	Currency       string     `gorm:"type:varchar(8);not null;default:'FCFA'" json:"currency"`
	Status         string     `gorm:"type:varchar(16);not null;default:'pending';index" json:"status"`
	Mode           string     `gorm:"type:varchar(16);not null;default:'dine_in'" json:"mode"`
	Comment        string     `gorm:"type:text" json:"comment,omitempty"`
	OrderedAt      time.Time  `gorm:"not null;index" json:"ordered_at"`
	ConfirmedAt    *time.Time `json:"confirmed_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Items      []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	StatusLogs []OrderStatusLog `gorm:"foreignKey:OrderID" json:"status_logs,omitempty"`
	Table      *Table           `gorm:"foreignKey:TableID" json:"table,omitempty"`
	Client     *User            `gorm:"foreignKey:ClientID" json:"client,omitempty"`
}

// OrderItem carries the dish name and unit price copied at conversion time,
// independent of later catalog edits.
type OrderItem struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	DishID    int64     `gorm:"not null" json:"dish_id"`
	Name      string    `gorm:"type:varchar(128);not null" json:"name"`
	Quantity  int32     `gorm:"not null" json:"quantity"`
	UnitPrice float64   `gorm:"not null" json:"unit_price"`
	Note      string    `gorm:"type:text" json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderStatusLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64     `gorm:"not null;index" json:"order_id"`
	Status    string    `gorm:"type:varchar(16);not null" json:"status"`
	Comment   string    `gorm:"type:text" json:"comment,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// OrderHistory links an order into its client's history. Appended after the
// conversion transaction commits, best effort.
type OrderHistory struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"not null;index" json:"user_id"`
	OrderID   int64     `gorm:"not null;uniqueIndex" json:"order_id"`
	CreatedAt time.Time `json:"created_at"`
}
