package repositories

// RepositoryProvider bundles every repository interface the services need,
// so constructors take one argument instead of eight.
type RepositoryProvider struct {
	ProposalRepo     ProposalRepositoryFacade
	RequestRepo      RequestRepositoryFacade
	UserRepo         UserRepositoryFacade
	CurrencyRepo     CurrencyRepositoryFacade
	NotificationRepo NotificationRepository
	AuditRepo        AuditRepository
	EmailOutboxRepo  EmailOutboxRepository
	ReportingRepo    ReportingRepository
}
