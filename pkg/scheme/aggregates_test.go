package scheme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalance(t *testing.T) {
	farmer := &Farmer{ID: 7, NumberOfPlots: 3, AmountPerPlot: 1000}
	payments := []Payment{
		{ID: 1, Farmer: 7, Amount: 1000},
		{ID: 2, Farmer: 7, Amount: 500},
		{ID: 3, Farmer: 9, Amount: 800},
	}

	assert.Equal(t, 1500.0, TotalPaid(7, payments))
	assert.Equal(t, 1500.0, Balance(farmer, payments))
}

func TestBalance_FullyPaid(t *testing.T) {
	farmer := &Farmer{ID: 1, NumberOfPlots: 2, AmountPerPlot: 500}
	payments := []Payment{{Farmer: 1, Amount: 1200}}
	assert.Equal(t, -200.0, Balance(farmer, payments))
}

func TestOutstandingFarmers(t *testing.T) {
	farmers := []Farmer{
		{ID: 1, NumberOfPlots: 1, AmountPerPlot: 1000},
		{ID: 2, NumberOfPlots: 1, AmountPerPlot: 1000},
		{ID: 3, NumberOfPlots: 2, AmountPerPlot: 1000},
	}
	payments := []Payment{
		{Farmer: 1, Amount: 1000},
		{Farmer: 3, Amount: 1500},
	}

	outstanding := OutstandingFarmers(farmers, payments)
	assert.Len(t, outstanding, 2)
	assert.Equal(t, int64(2), outstanding[0].ID)
	assert.Equal(t, int64(3), outstanding[1].ID)
}

func TestPaidFarmerCount(t *testing.T) {
	payments := []Payment{
		{Farmer: 1, Amount: 100},
		{Farmer: 1, Amount: 200},
		{Farmer: 2, Amount: 50},
	}
	assert.Equal(t, 2, PaidFarmerCount(payments))
	assert.Equal(t, 0, PaidFarmerCount(nil))
}

func TestAttendanceRate(t *testing.T) {
	records := []AttendanceRecord{
		{Farmer: 1, Status: AttendancePresent},
		{Farmer: 1, Status: AttendanceLate},
		{Farmer: 1, Status: AttendanceAbsent},
		{Farmer: 1, Status: AttendanceExcused},
		{Farmer: 2, Status: AttendanceAbsent},
	}

	assert.InDelta(t, 0.5, AttendanceRate(1, records), 1e-9)
	assert.Equal(t, 0.0, AttendanceRate(2, records))
	assert.Equal(t, 0.0, AttendanceRate(3, records))
}

func TestPenaltyTotal(t *testing.T) {
	records := []AttendanceRecord{
		{Farmer: 1, PenaltyPoints: 2},
		{Farmer: 2, PenaltyPoints: 5},
	}
	cases := []DisciplineCase{
		{Farmer: 1, PenaltyPoints: 3},
	}
	assert.Equal(t, int64(5), PenaltyTotal(1, records, cases))
	assert.Equal(t, int64(5), PenaltyTotal(2, records, cases))
	assert.Equal(t, int64(0), PenaltyTotal(9, records, cases))
}

func TestPlotTotals(t *testing.T) {
	farmers := []Farmer{
		{NumberOfPlots: 3, AmountPerPlot: 1000},
		{NumberOfPlots: 2, AmountPerPlot: 1500},
	}
	plots, expected := PlotTotals(farmers)
	assert.Equal(t, int64(5), plots)
	assert.Equal(t, 6000.0, expected)
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Jane Banda", (&User{FirstName: "Jane", LastName: "Banda"}).FullName())
	assert.Equal(t, "jbanda", (&User{Username: "jbanda"}).FullName())
}
