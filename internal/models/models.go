package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	ProductActive   = "active"
	ProductDraft    = "draft"
	ProductArchived = "archived"
)

const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

const (
	OrderProcessing = "processing"
	OrderShipped    = "shipped"
	OrderDelivered  = "delivered"
	OrderCancelled  = "cancelled"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Name         string    `gorm:"not null"               json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"   json:"email"`
	PasswordHash string    `gorm:"not null"               json:"-"`
	Role         string    `gorm:"not null;default:user"  json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

type Category struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"  json:"id"`
	Name      string    `gorm:"not null"              json:"name"`
	Slug      string    `gorm:"uniqueIndex;not null"  json:"slug"`
	Image     string    `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID                uuid.UUID           `gorm:"type:uuid;primaryKey"              json:"id"`
	Name              string              `gorm:"not null"                          json:"name"`
	Slug              string              `gorm:"uniqueIndex;not null"              json:"slug"`
	Description       string              `json:"description"`
	Image             string              `json:"image"`
	Brand             string              `json:"brand"`
	SKU               *string             `gorm:"uniqueIndex"                       json:"sku,omitempty"`
	Price             decimal.Decimal     `gorm:"type:numeric(12,2);not null"       json:"price"`
	DiscountPrice     decimal.NullDecimal `gorm:"type:numeric(12,2)"                json:"discount_price"`
	OnSale            bool                `gorm:"not null;default:false"            json:"on_sale"`
	IsNew             bool                `gorm:"not null;default:false"            json:"is_new"`
	Stock             int                 `gorm:"not null;default:0"                json:"stock"`
	LowStockThreshold int                 `gorm:"not null;default:5"                json:"low_stock_threshold"`
	Status            string              `gorm:"not null;default:active;index"     json:"status"`
	CategoryID        *uuid.UUID          `gorm:"type:uuid;index"                   json:"category_id"`
	Category          *Category           `gorm:"constraint:OnDelete:SET NULL"      json:"category,omitempty"`
	Variants          []ProductVariant    `gorm:"constraint:OnDelete:CASCADE"       json:"variants,omitempty"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// EffectivePrice is the discount price when the product is on sale and has
// one, otherwise the list price.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.OnSale && p.DiscountPrice.Valid {
		return p.DiscountPrice.Decimal.Round(2)
	}
	return p.Price.Round(2)
}

type ProductVariant struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"       json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;index;not null"   json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Stock     int       `gorm:"not null;default:0"         json:"stock"`
}

// CartItem keeps "no variant" as uuid.Nil so the unique index covers it.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                  json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"          json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"          json:"product_id"`
	VariantID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_cart_line;not null"          json:"variant_id"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"                 json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *CartItem) HasVariant() bool { return c.VariantID != uuid.Nil }

type WishlistItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"                                 json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_line;not null"     json:"user_id"`
	ProductID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_wishlist_line;not null"     json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"                 json:"id"`
	UserID          uuid.UUID       `gorm:"type:uuid;index;not null"             json:"user_id"`
	Subtotal        decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"subtotal"`
	ShippingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"shipping_fee"`
	Total           decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"total"`
	ShippingAddress string          `gorm:"not null"                             json:"shipping_address"`
	Phone           string          `gorm:"not null"                             json:"phone"`
	PaymentStatus   string          `gorm:"not null;default:pending"             json:"payment_status"`
	OrderStatus     string          `gorm:"not null;default:processing;index"    json:"order_status"`
	Items           []OrderItem     `gorm:"constraint:OnDelete:CASCADE"          json:"items,omitempty"`
	CreatedAt       time.Time       `gorm:"index"                                json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem is written once at checkout and never updated.
type OrderItem struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey"            json:"id"`
	OrderID     uuid.UUID       `gorm:"type:uuid;index;not null"        json:"order_id"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"              json:"product_id"`
	VariantID   *uuid.UUID      `gorm:"type:uuid"                       json:"variant_id,omitempty"`
	ProductName string          `gorm:"not null"                        json:"product_name"`
	Size        string          `json:"size,omitempty"`
	Color       string          `json:"color,omitempty"`
	Quantity    int             `gorm:"not null;check:quantity > 0"     json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"     json:"unit_price"`
}

func (i *OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type HeroSlide struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Title       string    `gorm:"not null"                 json:"title"`
	Subtitle    string    `json:"subtitle"`
	Description string    `json:"description"`
	Image       string    `json:"image"`
	Active      bool      `gorm:"not null"                 json:"active"`
	Position    int       `gorm:"not null;default:0"       json:"position"`
	CreatedAt   time.Time `json:"created_at"`
}

// All lists every persisted model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Category{},
		&Product{},
		&ProductVariant{},
		&CartItem{},
		&WishlistItem{},
		&Order{},
		&OrderItem{},
		&HeroSlide{},
	}
}

func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(*gorm.DB) error           { newID(&u.ID); return nil }
func (c *Category) BeforeCreate(*gorm.DB) error       { newID(&c.ID); return nil }
func (p *Product) BeforeCreate(*gorm.DB) error        { newID(&p.ID); return nil }
func (v *ProductVariant) BeforeCreate(*gorm.DB) error { newID(&v.ID); return nil }
func (c *CartItem) BeforeCreate(*gorm.DB) error       { newID(&c.ID); return nil }
func (w *WishlistItem) BeforeCreate(*gorm.DB) error   { newID(&w.ID); return nil }
func (o *Order) BeforeCreate(*gorm.DB) error          { newID(&o.ID); return nil }
func (i *OrderItem) BeforeCreate(*gorm.DB) error      { newID(&i.ID); return nil }
func (h *HeroSlide) BeforeCreate(*gorm.DB) error      { newID(&h.ID); return nil }

func (CartItem) TableName() string     { return "cart_items" }
func (WishlistItem) TableName() string { return "wishlist_items" }
