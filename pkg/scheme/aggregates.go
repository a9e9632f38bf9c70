package scheme

// This file holds the read-only aggregates the dashboards derive from
// fetched lists. None of these figures are served by the API; they are
// only as complete as the lists they were computed from, so callers must
// recompute them whenever a list changes.

// TotalPaid sums the payments recorded for the given farmer
func TotalPaid(farmerID int64, payments []Payment) float64 {
	var total float64
	for _, p := range payments {
		if p.Farmer == farmerID {
			total += p.Amount
		}
	}
	return total
}

// Balance returns the farmer's outstanding plot fee:
// number_of_plots * amount_per_plot minus everything paid so far.
// A fully paid (or overpaid) farmer yields zero or a negative balance.
func Balance(f *Farmer, payments []Payment) float64 {
	return f.ExpectedTotal() - TotalPaid(f.ID, payments)
}

// OutstandingFarmers returns the farmers whose payments do not yet cover
// their expected total, in the order they appear in the input.
func OutstandingFarmers(farmers []Farmer, payments []Payment) []Farmer {
	var out []Farmer
	for i := range farmers {
		if Balance(&farmers[i], payments) > 0 {
			out = append(out, farmers[i])
		}
	}
	return out
}

// PaidFarmerCount counts the distinct farmers with at least one payment
func PaidFarmerCount(payments []Payment) int {
	seen := make(map[int64]struct{}, len(payments))
	for _, p := range payments {
		seen[p.Farmer] = struct{}{}
	}
	return len(seen)
}

// AttendanceRate returns the fraction of records in which the farmer was
// present or late, out of all records for that farmer. Excused absences
// count against the rate the same way plain absences do, matching how the
// dashboards report it. Returns 0 when there are no records.
func AttendanceRate(farmerID int64, records []AttendanceRecord) float64 {
	var total, attended int
	for _, r := range records {
		if r.Farmer != farmerID {
			continue
		}
		total++
		if r.Status == AttendancePresent || r.Status == AttendanceLate {
			attended++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(attended) / float64(total)
}

// PenaltyTotal sums penalty points across attendance records and
// discipline cases for one farmer.
func PenaltyTotal(farmerID int64, records []AttendanceRecord, cases []DisciplineCase) int64 {
	var total int64
	for _, r := range records {
		if r.Farmer == farmerID {
			total += r.PenaltyPoints
		}
	}
	for _, c := range cases {
		if c.Farmer == farmerID {
			total += c.PenaltyPoints
		}
	}
	return total
}

// PlotTotals sums plots and expected plot fees across a farmer list
func PlotTotals(farmers []Farmer) (plots int64, expected float64) {
	for i := range farmers {
		plots += farmers[i].NumberOfPlots
		expected += farmers[i].ExpectedTotal()
	}
	return plots, expected
}
