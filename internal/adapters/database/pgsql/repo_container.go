package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/qistas/opsflow_backend/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PaymentRequestRepo: newPgxPaymentRequestRepository(dbPool),
		OrderRepo:          newPgxOrderRepository(dbPool),
		QuotationRepo:      newPgxQuotationRepository(dbPool),
		PartyRepo:          newPgxPartyRepository(dbPool),
		UserRepo:           newPgxUserRepository(dbPool),
	}
}
