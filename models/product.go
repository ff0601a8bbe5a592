package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type ProductType struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"size:200" json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

// SizeGroup names a set of interchangeable sizes for one product type,
// e.g. "Standard" -> {S, M, L, XL} for "T-Shirt". The (name, product type)
// pair is unique.
type SizeGroup struct {
	ID            uint               `gorm:"primaryKey" json:"id"`
	Name          string             `gorm:"size:50;not null;uniqueIndex:uidx_size_group_name_type" json:"name"`
	ProductTypeID uint               `gorm:"not null;uniqueIndex:uidx_size_group_name_type" json:"product_type_id"`
	ProductType   ProductType        `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	Description   string             `gorm:"size:200" json:"description"`
	Mappings      []SizeGroupMapping `gorm:"foreignKey:SizeGroupID;constraint:OnDelete:CASCADE" json:"mappings,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
}

// Sizes lists the sizes assigned to this group. Mappings must be preloaded.
func (sg *SizeGroup) Sizes() []string {
	sizes := make([]string, 0, len(sg.Mappings))
	for _, m := range sg.Mappings {
		sizes = append(sizes, m.Size)
	}
	return sizes
}

func (sg *SizeGroup) HasSize(size string) bool {
	for _, m := range sg.Mappings {
		if m.Size == size {
			return true
		}
	}
	return false
}

// SizeGroupMapping binds one size to one group. A size belongs to at most
// one group per product type.
type SizeGroupMapping struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SizeGroupID uint      `gorm:"not null;uniqueIndex:uidx_size_group_size" json:"size_group_id"`
	Size        string    `gorm:"size:20;not null;uniqueIndex:uidx_size_group_size" json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// Product is one sellable variant. The (product type, name, size) triple is
// unique; variants sharing product type, name and size group form a
// fulfillment pool.
type Product struct {
	ID            uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string          `gorm:"size:100;not null;uniqueIndex:uidx_product_variant" json:"name"`
	ProductTypeID uint            `gorm:"not null;uniqueIndex:uidx_product_variant" json:"product_type_id"`
	ProductType   ProductType     `gorm:"foreignKey:ProductTypeID" json:"product_type,omitempty"`
	ProductCode   string          `gorm:"size:5;not null" json:"product_code"`
	Size          string          `gorm:"size:20;not null;uniqueIndex:uidx_product_variant" json:"size"`
	SizeGroupID   *uint           `gorm:"index" json:"size_group_id"`
	Quantity      int             `gorm:"not null;default:0" json:"quantity"`
	Price         decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (p *Product) InStock() bool {
	return p.Quantity > 0
}

func (p *Product) LowStock() bool {
	return p.Quantity < 10
}

// DisplayName is "<type> - <name>" when the product type is loaded.
func (p *Product) DisplayName() string {
	if p.ProductType.Name == "" {
		return p.Name
	}
	return p.ProductType.Name + " - " + p.Name
}
