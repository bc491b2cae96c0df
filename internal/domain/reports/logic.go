package reports

// Summary aggregates cross-module counts for the administrative
// overview screen.
type Summary struct {
	Employees        int     `json:"employees"`
	PendingVacations int     `json:"pendingVacations"`
	ActiveTaxpayers  int     `json:"activeTaxpayers"`
	OpenInvoices     int     `json:"openInvoices"`
	OverdueInvoices  int     `json:"overdueInvoices"`
	OpenProcesses    int     `json:"openProcesses"`
	ActiveProjects   int     `json:"activeProjects"`
	RevenueBilled    float64 `json:"revenueBilled"`
	RevenueCollected float64 `json:"revenueCollected"`
}

// CollectionRate returns collected/billed as a percentage, guarding
// the zero-billed case.
func CollectionRate(billed, collected float64) float64 {
	if billed <= 0 {
		return 0
	}
	return collected / billed * 100
}
