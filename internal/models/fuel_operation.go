package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OperationKind is the wire value of tipoOperacion.
type OperationKind string

const (
	OperationLoad        OperationKind = "Carga"
	OperationConsumption OperationKind = "Consumo"
)

// FuelOperation is one row of a card's running-balance ledger.
// Rows are append-only; balances chain from the previous row of the same card.
type FuelOperation struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	Kind           OperationKind   `gorm:"size:16;index;not null" json:"tipoOperacion"`
	OccurredAt     time.Time       `gorm:"index:idx_fuel_operations_card_time,priority:2;not null" json:"fecha"`
	FuelCardID     uint            `gorm:"index:idx_fuel_operations_card_time,priority:1;not null" json:"fuelCardId"`
	OpeningBalance decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:2;not null" json:"saldoInicio"`
	AmountMoney    decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:2;not null" json:"valorOperacionDinero"`
	AmountLiters   decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:3;not null" json:"valorOperacionLitros"`
	ClosingBalance decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:2;not null" json:"saldoFinal"`
	ClosingLiters  decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:3;not null" json:"saldoFinalLitros"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`

	FuelCard      *FuelCard          `gorm:"foreignKey:FuelCardID" json:"fuelCard,omitempty"`
	Distributions []FuelDistribution `gorm:"foreignKey:FuelOperationID;constraint:OnDelete:CASCADE" json:"fuelDistributions"`
}

// FuelDistribution allocates litres of a consumption to a vehicle.
type FuelDistribution struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	FuelOperationID uint            `gorm:"index;not null" json:"fuelOperationId"`
	VehicleID       uint            `gorm:"index;not null" json:"vehicleId"`
	Liters          decimal.Decimal `gorm:"type:int;size:64;serializer:fixed;scale:3;not null" json:"liters"`
	CreatedAt       time.Time       `json:"createdAt"`

	Vehicle *Vehicle `gorm:"foreignKey:VehicleID" json:"vehicle,omitempty"`
}
