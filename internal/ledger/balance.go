package ledger

import (
	"fmt"
	"strings"

	"github.com/daeldrn/fdashboardtemplate/internal/models"

	"github.com/shopspring/decimal"
)

// Number of decimals kept for money and volumes. Values are rounded to these
// before any balance is derived so a returned row equals the stored one.
const (
	MoneyPrecision  = models.MoneyScale
	LitersPrecision = models.LitersScale
)

// ParseKind maps a wire value to an operation kind.
func ParseKind(s string) (models.OperationKind, error) {
	switch kind := models.OperationKind(strings.TrimSpace(s)); kind {
	case models.OperationLoad, models.OperationConsumption:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
	}
}

// Balances is the result of applying one operation to a card's ledger.
type Balances struct {
	Opening       decimal.Decimal
	Amount        decimal.Decimal
	AmountLiters  decimal.Decimal
	Closing       decimal.Decimal
	ClosingLiters decimal.Decimal
}

// Compute applies amount, rounded to MoneyPrecision, to the opening balance.
// Loads add, consumptions subtract; both volumes use the card's price at the
// time of the call.
func Compute(kind models.OperationKind, opening, amount, price decimal.Decimal) (Balances, error) {
	if !price.IsPositive() {
		return Balances{}, ErrInvalidFuelPrice
	}
	amount = amount.Round(MoneyPrecision)

	var closing decimal.Decimal
	switch kind {
	case models.OperationLoad:
		closing = opening.Add(amount)
	case models.OperationConsumption:
		closing = opening.Sub(amount)
	default:
		return Balances{}, fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}

	b := Balances{
		Opening:       opening,
		Amount:        amount,
		AmountLiters:  amount.DivRound(price, LitersPrecision),
		Closing:       closing,
		ClosingLiters: closing.DivRound(price, LitersPrecision),
	}
	if err := checkRange(b); err != nil {
		return Balances{}, err
	}
	return b, nil
}

func checkRange(b Balances) error {
	for _, v := range []struct {
		d     decimal.Decimal
		scale int32
	}{
		{b.Amount, MoneyPrecision},
		{b.Closing, MoneyPrecision},
		{b.AmountLiters, LitersPrecision},
		{b.ClosingLiters, LitersPrecision},
	} {
		if _, err := models.ToUnits(v.d, v.scale); err != nil {
			return fmt.Errorf("%w: %v", ErrAmountOutOfRange, err)
		}
	}
	return nil
}

// OpeningBalance returns the balance a new operation starts from: the closing
// balance of the card's latest operation, or zero for an empty ledger.
func OpeningBalance(latest *models.FuelOperation) decimal.Decimal {
	if latest == nil {
		return decimal.Zero
	}
	return latest.ClosingBalance
}
