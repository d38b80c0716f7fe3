package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusTransitions(t *testing.T) {
	cases := []struct {
		from    InvoiceStatus
		to      InvoiceStatus
		allowed bool
	}{
		{StatusProforma, StatusDefinitive, true},
		{StatusProforma, StatusCancelled, true},
		{StatusProforma, StatusProforma, false},
		{StatusDefinitive, StatusProforma, true}, // undo of an automatic settlement
		{StatusDefinitive, StatusCancelled, true},
		{StatusDefinitive, StatusDefinitive, false},
		{StatusCancelled, StatusProforma, false},
		{StatusCancelled, StatusDefinitive, false},
		{StatusCancelled, StatusCancelled, false},
	}

	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestInvoiceRemaining(t *testing.T) {
	inv := Invoice{
		AmountTTC:  decimal.NewFromInt(1000),
		PaidAmount: decimal.NewFromInt(400),
	}
	assert.True(t, inv.Remaining().Equal(decimal.NewFromInt(600)))
	assert.False(t, inv.IsSettled())

	inv.PaidAmount = decimal.NewFromInt(1000)
	assert.True(t, inv.IsSettled())
	assert.True(t, inv.Remaining().IsZero())
}

func TestReferenceFormat(t *testing.T) {
	jan := time.Date(2026, time.January, 15, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "FCO-0126-", ReferencePrefix(jan))
	assert.Equal(t, "FCO-0126-001", FormatReference(jan, 1))
	assert.Equal(t, "FCO-0126-042", FormatReference(jan, 42))
	assert.Equal(t, "FCO-0126-1000", FormatReference(jan, 1000))

	dec := time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, "FCO-1225-007", FormatReference(dec, 7))
}

func TestPaymentModeMovementKind(t *testing.T) {
	assert.Equal(t, KindEntreeEspece, ModeEspeces.MovementKind())
	assert.Equal(t, KindEntreeCheque, ModeCheque.MovementKind())
	assert.Equal(t, KindEntreeVirement, ModeVirement.MovementKind())
	// Term settlements are recorded as cash inflows.
	for _, m := range []PaymentMode{ModeEcheance30, ModeEcheance45, ModeEcheance60, ModeEcheance90} {
		assert.Equal(t, KindEntreeEspece, m.MovementKind(), "mode %s", m)
	}
}

func TestParcelBillableTotal(t *testing.T) {
	p := Parcel{
		Items: []ParcelItem{
			{
				UnitPrice:    decimal.NewFromInt(2500),
				Quantity:     3,
				PackagingFee: decimal.NewFromInt(500),
				InsuranceFee: decimal.NewFromInt(250),
				AgencyFee:    decimal.NewFromInt(750),
			},
			{
				UnitPrice: decimal.NewFromInt(10000),
				Quantity:  1,
			},
		},
	}

	// (2500*3 + 500 + 250 + 750) + 10000
	assert.True(t, p.BillableTotal().Equal(decimal.NewFromInt(19000)))
}

func TestGrandesLignesClosingIdentity(t *testing.T) {
	g := GrandesLignes{
		TotalAppro:           decimal.NewFromInt(20000),
		TotalDecaissement:    decimal.NewFromInt(30000),
		TotalEntreesCheque:   decimal.NewFromInt(5000),
		TotalEntreesEspece:   decimal.NewFromInt(10000),
		TotalEntreesVirement: decimal.NewFromInt(2500),
		SoldeInitial:         decimal.NewFromInt(50000),
	}

	assert.True(t, g.TotalEntrees().Equal(decimal.NewFromInt(17500)))
	assert.True(t, g.ClosingBalance().Equal(decimal.NewFromInt(57500)))
}
