package models

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"

	"github.com/shopspring/decimal"
	"gorm.io/gorm/schema"
)

// Scales of the fixed-point columns: amounts of money are kept in cents,
// volumes in millilitres and prices per litre in ten-thousandths.
const (
	MoneyScale  = 2
	LitersScale = 3
	PriceScale  = 4
)

// ErrFixedOverflow is returned when a value does not fit a 64-bit column at
// its scale.
var ErrFixedOverflow = errors.New("value out of range for fixed-point column")

func init() {
	schema.RegisterSerializer("fixed", FixedSerializer{})
}

// ToUnits converts d to an integer count of 10^-scale units, rounding half
// away from zero.
func ToUnits(d decimal.Decimal, scale int32) (int64, error) {
	units := d.Shift(scale).Round(0).BigInt()
	if !units.IsInt64() {
		return 0, fmt.Errorf("%w: %s at scale %d", ErrFixedOverflow, d, scale)
	}
	return units.Int64(), nil
}

// FromUnits is the inverse of ToUnits.
func FromUnits(units int64, scale int32) decimal.Decimal {
	return decimal.New(units, -scale)
}

// FixedSerializer stores a decimal.Decimal as a BIGINT count of units, the
// scale coming from the field's "scale" tag. SQLite has no exact decimal
// type, so money never passes through a float.
type FixedSerializer struct{}

func (FixedSerializer) Scan(ctx context.Context, field *schema.Field, dst reflect.Value, dbValue interface{}) error {
	var units int64
	switch v := dbValue.(type) {
	case nil:
	case int64:
		units = v
	case int32:
		units = int64(v)
	case int:
		units = int64(v)
	case []byte:
		n, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return fmt.Errorf("scan %s: %w", field.Name, err)
		}
		units = n
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("scan %s: %w", field.Name, err)
		}
		units = n
	default:
		return fmt.Errorf("scan %s: unsupported type %T", field.Name, dbValue)
	}

	field.ReflectValueOf(ctx, dst).Set(reflect.ValueOf(FromUnits(units, int32(field.Scale))))
	return nil
}

func (FixedSerializer) Value(ctx context.Context, field *schema.Field, dst reflect.Value, fieldValue interface{}) (interface{}, error) {
	var d decimal.Decimal
	switch v := fieldValue.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v != nil {
			d = *v
		}
	default:
		return nil, fmt.Errorf("value %s: unsupported type %T", field.Name, fieldValue)
	}
	units, err := ToUnits(d, int32(field.Scale))
	if err != nil {
		return nil, fmt.Errorf("value %s: %w", field.Name, err)
	}
	return units, nil
}
