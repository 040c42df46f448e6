package models

import "time"

const (
	OrderStatusCreated    = "created"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusCreated, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// Prices are stored in minor units (cents) so order totals stay exact.
type Product struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name        string `gorm:"not null"                      json:"name"`
	Description string `gorm:"not null"                      json:"description"`
	Category    string `gorm:"index"                         json:"category"`
	Price       int64  `gorm:"not null;check:price >= 0"     json:"price"`
	Stock       uint   `json:"stock"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"uniqueIndex;not null"     json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type RefreshToken struct {
	ID        uint      `gorm:"primaryKey"           json:"id"`
	JTI       string    `gorm:"uniqueIndex;not null" json:"jti"`
	UserID    uint      `gorm:"index;not null"       json:"user_id"`
	ExpiresAt time.Time `gorm:"not null"             json:"expires_at"`
	Revoked   bool      `gorm:"default:false"        json:"revoked"`
}

type CartItem struct {
	ID        uint `gorm:"primaryKey"                              json:"id"`
	UserID    uint `gorm:"index:idx_cart_user_product,unique"      json:"user_id"`
	ProductID uint `gorm:"index:idx_cart_user_product,unique"      json:"product_id"`
	Quantity  uint `gorm:"not null;check:quantity > 0"             json:"quantity"`
}

type Order struct {
	ID            uint      `gorm:"primaryKey"      json:"id"`
	UserID        uint      `gorm:"index;not null"  json:"user_id"`
	AddressID     uint      `gorm:"not null"        json:"address_id"`
	PaymentMethod string    `gorm:"not null"        json:"payment_method"`
	Status        string    `gorm:"not null"        json:"status"`
	Total         int64     `gorm:"not null"        json:"total"`
	CreatedAt     time.Time `gorm:"not null"        json:"created_at"`
}

// UnitPrice is snapshotted at checkout so later catalog price changes do
// not rewrite order history.
type OrderItem struct {
	ID        uint  `gorm:"primaryKey"                  json:"id"`
	OrderID   uint  `gorm:"index;not null"              json:"order_id"`
	ProductID uint  `gorm:"not null"                    json:"product_id"`
	Quantity  uint  `gorm:"not null;check:quantity > 0" json:"quantity"`
	UnitPrice int64 `gorm:"not null"                    json:"unit_price"`
	LineTotal int64 `gorm:"not null"                    json:"line_total"`
}
