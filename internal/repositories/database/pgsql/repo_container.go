package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	registerRepo := newPgxRegisterRepository(dbPool)
	invoiceRepo := newPgxInvoiceRepository(dbPool)
	paymentRepo := newPgxPaymentRepository(dbPool, registerRepo)
	reportingRepo := newPgxReportingRepository(dbPool)

	return portsrepo.RepositoryProvider{
		RegisterRepo:  registerRepo,
		InvoiceRepo:   invoiceRepo,
		PaymentRepo:   paymentRepo,
		ReportingRepo: reportingRepo,
	}
}
