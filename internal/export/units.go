package export

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is the unit amounts are written in. Release values are millions of
// dollars.
type Unit string

const (
	UnitMillions  Unit = "millions"
	UnitBillions  Unit = "billions"
	UnitTrillions Unit = "trillions"
)

// ErrUnknownUnit is returned by ParseUnit.
var ErrUnknownUnit = errors.New("unknown unit")

// ParseUnit accepts "millions", "billions" or "trillions". Empty means millions.
func ParseUnit(s string) (Unit, error) {
	u := Unit(strings.ToLower(strings.TrimSpace(s)))
	switch u {
	case "":
		return UnitMillions, nil
	case UnitMillions, UnitBillions, UnitTrillions:
		return u, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownUnit)
}

func (u Unit) exponent() int32 {
	switch u {
	case UnitBillions:
		return 3
	case UnitTrillions:
		return 6
	}
	return 0
}

// Format writes a value given in millions in unit u, exactly.
func (u Unit) Format(millions int64) string {
	exp := u.exponent()
	if exp == 0 {
		return strconv.FormatInt(millions, 10)
	}
	return decimal.New(millions, -exp).String()
}
