package ledger

import "errors"

var (
	// ErrCardNotFound is returned when the referenced fuel card doesn't exist
	ErrCardNotFound = errors.New("fuel card not found")

	// ErrOperationNotFound is returned when a fuel operation doesn't exist
	ErrOperationNotFound = errors.New("fuel operation not found")

	// ErrInvalidKind is returned for a tipoOperacion other than Carga or Consumo
	ErrInvalidKind = errors.New("invalid tipoOperacion")

	// ErrInvalidTimestamp is returned when fecha cannot be parsed
	ErrInvalidTimestamp = errors.New("invalid fecha")

	// ErrInvalidFuelPrice is returned when a card's price per litre is not positive
	ErrInvalidFuelPrice = errors.New("fuel card price must be greater than zero")

	// ErrAmountOutOfRange is returned when an amount or the balance it produces
	// does not fit the ledger's fixed-point columns
	ErrAmountOutOfRange = errors.New("valorOperacionDinero out of range")

	// ErrOutOfOrder is returned when an operation is dated before the card's latest one
	ErrOutOfOrder = errors.New("operation is dated before the card's latest operation")
)

// IsInvalidArgument reports whether err is caused by bad caller input.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidKind) ||
		errors.Is(err, ErrInvalidTimestamp) ||
		errors.Is(err, ErrAmountOutOfRange)
}
