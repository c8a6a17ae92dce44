package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// balances and prices go over the wire as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// FuelCard is a prepaid or credit card used to buy fuel. Its price per litre
// converts money amounts on the ledger into litres.
type FuelCard struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Number      string          `gorm:"size:64;uniqueIndex;not null" json:"numeroDeTarjeta"`
	CardType    string          `gorm:"size:32" json:"tipoDeTarjeta"`     // Crédito / Débito / Prepago
	FuelType    string          `gorm:"size:32" json:"tipoDeCombustible"` // Gasolina / Diésel / Eléctrico
	FuelPrice   decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:4;not null" json:"precioCombustible"`
	Currency    string          `gorm:"size:8;default:CUP" json:"moneda"`
	ExpiresAt   *time.Time      `json:"fechaVencimiento"`
	IsReservoir bool            `gorm:"not null;default:false" json:"esReservorio"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}
