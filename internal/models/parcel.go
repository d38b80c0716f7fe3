package models

import "github.com/shopspring/decimal"

// Agency is the projection of an agency row this core reads.
type Agency struct {
	AgencyID     string `db:"agency_id"`
	Name         string `db:"name"`
	CurrencyCode string `db:"currency_code"`
}

// Parcel is the projection of a colis row this core reads.
type Parcel struct {
	ParcelID  string `db:"parcel_id"`
	Reference string `db:"reference"`
	AgencyID  string `db:"agency_id"`
}

// ParcelItem is one billable line of a parcel.
type ParcelItem struct {
	ItemID       string          `db:"item_id"`
	ParcelID     string          `db:"parcel_id"`
	Designation  string          `db:"designation"`
	UnitPrice    decimal.Decimal `db:"unit_price"`
	Quantity     int64           `db:"quantity"`
	PackagingFee decimal.Decimal `db:"packaging_fee"`
	InsuranceFee decimal.Decimal `db:"insurance_fee"`
	AgencyFee    decimal.Decimal `db:"agency_fee"`
}
