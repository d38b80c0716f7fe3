package mapping

import (
	"github.com/sahelexpress/colis_backend/internal/core/domain"
	"github.com/sahelexpress/colis_backend/internal/models"
)

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:         d.PaymentID,
		InvoiceID:         d.InvoiceID,
		Amount:            d.Amount,
		ChangeGiven:       d.ChangeGiven,
		Mode:              string(d.Mode),
		ExternalReference: d.ExternalReference,
		PaymentDate:       d.PaymentDate,
		Status:            int(d.Status),
		AuditFields:       ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:         m.PaymentID,
		InvoiceID:         m.InvoiceID,
		Amount:            m.Amount,
		ChangeGiven:       m.ChangeGiven,
		Mode:              domain.PaymentMode(m.Mode),
		ExternalReference: m.ExternalReference,
		PaymentDate:       m.PaymentDate,
		Status:            domain.PaymentStatus(m.Status),
		AuditFields:       ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainPaymentSlice converts a slice of model Payments to domain objects
func ToDomainPaymentSlice(ms []models.Payment) []domain.Payment {
	ds := make([]domain.Payment, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainPayment(m)
	}
	return ds
}

// ToModelPaymentLink converts a domain PaymentLink to a model PaymentLink
func ToModelPaymentLink(d domain.PaymentLink) models.PaymentLink {
	return models.PaymentLink{
		LinkID:           d.LinkID,
		Token:            d.Token,
		InvoiceID:        d.InvoiceID,
		Status:           string(d.Status),
		Amount:           d.Amount,
		Provider:         d.Provider,
		ProviderMetadata: d.ProviderMetadata,
		PaidAt:           d.PaidAt,
		ExpiresAt:        d.ExpiresAt,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentLink converts a model PaymentLink to a domain PaymentLink
func ToDomainPaymentLink(m models.PaymentLink) domain.PaymentLink {
	return domain.PaymentLink{
		LinkID:           m.LinkID,
		Token:            m.Token,
		InvoiceID:        m.InvoiceID,
		Status:           domain.PaymentLinkStatus(m.Status),
		Amount:           m.Amount,
		Provider:         m.Provider,
		ProviderMetadata: m.ProviderMetadata,
		PaidAt:           m.PaidAt,
		ExpiresAt:        m.ExpiresAt,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}
