package mapping

import (
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice to a model Invoice
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		Reference:     d.Reference,
		ParcelID:      d.ParcelID,
		AmountHT:      d.AmountHT,
		AmountTTC:     d.AmountTTC,
		PaidAmount:    d.PaidAmount,
		Status:        int(d.Status),
		AutoValidated: d.AutoValidated,
		CurrencyCode:  d.CurrencyCode,
		ExchangeRate:  d.ExchangeRate,
		InvoiceDate:   d.InvoiceDate,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice to a domain Invoice
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		Reference:     m.Reference,
		ParcelID:      m.ParcelID,
		AmountHT:      m.AmountHT,
		AmountTTC:     m.AmountTTC,
		PaidAmount:    m.PaidAmount,
		Status:        domain.InvoiceStatus(m.Status),
		AutoValidated: m.AutoValidated,
		CurrencyCode:  m.CurrencyCode,
		ExchangeRate:  m.ExchangeRate,
		InvoiceDate:   m.InvoiceDate,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainInvoiceSlice converts a slice of model Invoices to domain objects
func ToDomainInvoiceSlice(ms []models.Invoice) []domain.Invoice {
	ds := make([]domain.Invoice, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainInvoice(m)
	}
	return ds
}

// ToDomainParcel assembles a domain Parcel from its row and item rows.
func ToDomainParcel(m models.Parcel, items []models.ParcelItem) domain.Parcel {
	d := domain.Parcel{
		ParcelID:  m.ParcelID,
		Reference: m.Reference,
		AgencyID:  m.AgencyID,
		Items:     make([]domain.ParcelItem, len(items)),
	}
	for i, it := range items {
		d.Items[i] = domain.ParcelItem{
			ItemID:       it.ItemID,
			ParcelID:     it.ParcelID,
			Designation:  it.Designation,
			UnitPrice:    it.UnitPrice,
			Quantity:     it.Quantity,
			PackagingFee: it.PackagingFee,
			InsuranceFee: it.InsuranceFee,
			AgencyFee:    it.AgencyFee,
		}
	}
	return d
}

// ToDomainAgency converts a model Agency to a domain Agency
func ToDomainAgency(m models.Agency) domain.Agency {
	return domain.Agency{
		AgencyID:     m.AgencyID,
		Name:         m.Name,
		CurrencyCode: m.CurrencyCode,
	}
}
