package domain

// Currency represents a reference currency supported for proposal pricing.
type Currency struct {
	CurrencyCode string `json:"currencyCode"` // ISO 4217, Primary Key
	Symbol       string `json:"symbol"`
	Name         string `json:"name"`
	Precision    int    `json:"precision"` // Decimal places for display
	AuditFields
}
