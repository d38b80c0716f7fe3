package domain

import "github.com/shopspring/decimal"

// Agency is the read-only projection of an agency this core needs:
// a name for reconciliation grouping and the currency invoices inherit.
type Agency struct {
	AgencyID     string `json:"agencyID"`
	Name         string `json:"name"`
	CurrencyCode string `json:"currencyCode"` // Empty means the XOF default applies
}

// ParcelItem is one billable line of a parcel.
type ParcelItem struct {
	ItemID       string          `json:"itemID"`
	ParcelID     string          `json:"parcelID"`
	Designation  string          `json:"designation"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int64           `json:"quantity"`
	PackagingFee decimal.Decimal `json:"packagingFee"`
	InsuranceFee decimal.Decimal `json:"insuranceFee"`
	AgencyFee    decimal.Decimal `json:"agencyFee"`
}

// LineTotal is unit_price * quantity plus the per-line fees.
func (it ParcelItem) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(it.Quantity)).
		Add(it.PackagingFee).
		Add(it.InsuranceFee).
		Add(it.AgencyFee)
}

// Parcel is the read-only projection of a colis record: the unit being
// invoiced. The parcel lifecycle itself belongs to a collaborator system.
type Parcel struct {
	ParcelID  string       `json:"parcelID"`
	Reference string       `json:"reference"`
	AgencyID  string       `json:"agencyID"`
	Items     []ParcelItem `json:"items"`
}

// BillableTotal sums the line totals of every item on the parcel.
func (p Parcel) BillableTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range p.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}
