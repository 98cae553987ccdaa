package core

// TotalMonthlySavings sums the monthly savings over all ledger entries.
func TotalMonthlySavings(entries []SavingsEntry) float64 {
	var sum float64
	for _, e := range entries {
		sum += e.MonthlySavings
	}
	return sum
}

// TotalYearlySavings is the monthly total times 12. Unlike AnnualTotal this
// uses the x12 shortcut; the asymmetry is intentional and mirrors the
// shipped product.
func TotalYearlySavings(entries []SavingsEntry) float64 {
	return TotalMonthlySavings(entries) * 12
}
