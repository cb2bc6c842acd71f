package domain

// Provider is the master-data view of a counterparty as resolved from
// its code. The core only checks existence; it does not validate or
// cache this data.
type Provider struct {
	Code       string
	CIF        string
	Name       string
	PostalCode string
	Account    string
}

// AnalyticContext holds the session-scoped analytic defaults supplied by
// the identity collaborator for the acting user.
type AnalyticContext struct {
	AnalyticDimensions
	DefaultCashAccount string
}

// SequenceScope identifies one entry-number counter. Numbers are unique
// and monotonically non-decreasing within a scope.
type SequenceScope struct {
	CompanyCode string
	FiscalYear  int
}
