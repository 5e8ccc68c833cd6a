package material

import "time"

// Material is a stocked item that bookings can reserve.
type Material struct {
	ID            uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	SKU           string    `gorm:"column:sku;type:varchar(100);not null;unique" json:"sku"`
	Unit          string    `gorm:"type:varchar(50);not null;default:'piece'" json:"unit"`
	Price         float64   `gorm:"type:numeric(12,2);not null;default:0" json:"price"`
	StockQuantity int       `gorm:"type:int;not null;default:0" json:"stock_quantity"`
	IsActive      bool      `gorm:"not null" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
