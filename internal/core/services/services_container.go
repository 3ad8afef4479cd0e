package services

import (
	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
	portssvc "github.com/qistas/opsflow_backend/internal/core/ports/services"
	"github.com/qistas/opsflow_backend/pkg/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, gateway portssvc.MedadGateway, notifier portssvc.Notifier) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// The sync service is shared by every workflow service that ends in a
	// Medad post.
	container.MedadSync = NewMedadSyncService(gateway, repos, cfg.Medad)

	container.PaymentRequest = NewPaymentRequestService(repos.PaymentRequestRepo, container.MedadSync, notifier)
	container.Order = NewOrderService(repos.OrderRepo, container.MedadSync, notifier)
	container.Quotation = NewQuotationService(repos.QuotationRepo, container.MedadSync, notifier)
	container.User = NewUserService(repos.UserRepo)

	return container
}
