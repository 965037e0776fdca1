// Package payment derives settlement status from what is owed and what has been paid.
package payment

import (
	"github.com/shopspring/decimal"
)

const (
	MethodCash         = "CASH"
	MethodCard         = "CARD"
	MethodMobileMoney  = "MOBILE_MONEY"
	MethodBankTransfer = "BANK_TRANSFER"
	MethodFree         = "FREE"

	// Methods is the validator oneof list.
	Methods = MethodCash + " " + MethodCard + " " + MethodMobileMoney + " " + MethodBankTransfer + " " + MethodFree
)

const (
	StatusUnpaid  = "UNPAID"
	StatusPartial = "PARTIAL"
	StatusPaid    = "PAID"
)

// Derive is the single source of payment status. A complimentary stay is always paid;
// otherwise the status follows the cumulative amount paid against the amount due.
func Derive(due, paid decimal.Decimal, method string) string {
	switch {
	case method == MethodFree:
		return StatusPaid
	case paid.GreaterThanOrEqual(due):
		return StatusPaid
	case paid.IsPositive():
		return StatusPartial
	default:
		return StatusUnpaid
	}
}

// Balance is what remains owed. It goes negative on overpayment.
func Balance(due, paid decimal.Decimal) decimal.Decimal {
	return due.Sub(paid)
}

// Settlement is the result of applying one payment event to a claim.
type Settlement struct {
	Paid   decimal.Decimal
	Status string
	Method string
}

// Settle adds amount to the running total. The payment's method replaces the recorded one
// when given.
func Settle(due, paid, amount decimal.Decimal, currentMethod, method string) Settlement {
	if method == "" {
		method = currentMethod
	}

	if method == "" {
		method = MethodCash
	}

	total := paid.Add(amount)

	return Settlement{
		Paid:   total,
		Status: Derive(due, total, method),
		Method: method,
	}
}

// Total multiplies a unit price by a count of nights or days.
func Total(units int, price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(units)))
}
