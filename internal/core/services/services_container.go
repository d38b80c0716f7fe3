package services

import (
	portsrepo "github.com/sahelexpress/colis_backend/internal/core/ports/repositories"
	portssvc "github.com/sahelexpress/colis_backend/internal/core/ports/services"
	"github.com/sahelexpress/colis_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Caisse = NewCaisseService(repos.RegisterRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.RegisterRepo)

	// Payment settlement cuts across invoices and registers; the link
	// service settles through the payment service so both share semantics.
	container.Payment = NewPaymentService(repos.PaymentRepo, repos.InvoiceRepo, repos.RegisterRepo)
	container.PaymentLink = NewPaymentLinkService(repos.PaymentRepo, repos.InvoiceRepo, container.Payment, cfg.PaymentLinkTTL)

	container.Reporting = NewReportingService(repos.ReportingRepo, repos.RegisterRepo)

	return container
}
