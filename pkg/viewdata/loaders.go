package viewdata

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/limphasa/schemectl/pkg/api"
	"github.com/limphasa/schemectl/pkg/scheme"
)

// TreasurerDashboard is everything the treasurer view renders: the
// farmer roster, the payment ledger, and the outstanding-balance roster
// derived from the two.
type TreasurerDashboard struct {
	Farmers     []scheme.Farmer
	Payments    []scheme.Payment
	Outstanding []scheme.Farmer
	Stats       *api.PaymentStats
}

// AttendanceForm holds the choices the attendance-recording form offers
type AttendanceForm struct {
	Farmers []scheme.Farmer
	Blocks  []scheme.Block
}

// Loader fetches joined view data through the API services
type Loader struct {
	services *api.Services
}

// NewLoader creates a loader over the services
func NewLoader(services *api.Services) *Loader {
	return &Loader{services: services}
}

// LoadTreasurerDashboard fetches the treasurer view's data. The three
// fetches run concurrently and any failure fails the whole load.
func (l *Loader) LoadTreasurerDashboard(ctx context.Context) (*TreasurerDashboard, error) {
	var dash TreasurerDashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		farmers, err := l.allFarmers(ctx)
		if err != nil {
			return err
		}
		dash.Farmers = farmers
		return nil
	})
	g.Go(func() error {
		payments, err := l.allPayments(ctx)
		if err != nil {
			return err
		}
		dash.Payments = payments
		return nil
	})
	g.Go(func() error {
		stats, err := l.services.Payments.Stats(ctx)
		if err != nil {
			return err
		}
		dash.Stats = stats
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash.Outstanding = scheme.OutstandingFarmers(dash.Farmers, dash.Payments)
	return &dash, nil
}

// LoadAttendanceForm fetches the attendance form's choice lists as a
// unit.
func (l *Loader) LoadAttendanceForm(ctx context.Context) (*AttendanceForm, error) {
	var form AttendanceForm

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		farmers, err := l.allFarmers(ctx)
		if err != nil {
			return err
		}
		form.Farmers = farmers
		return nil
	})
	g.Go(func() error {
		blocks, err := l.services.RefData.Blocks(ctx)
		if err != nil {
			return err
		}
		form.Blocks = blocks
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &form, nil
}

// SectionLoader returns a stale-discarding loader for the sections of a
// selected block, backed by the cached reference-data lookup.
func (l *Loader) SectionLoader() *DependentLoader[int64, []scheme.Section] {
	return NewDependentLoader(func(ctx context.Context, blockID int64) ([]scheme.Section, error) {
		return l.services.RefData.SectionsForBlock(ctx, blockID)
	})
}

// allFarmers walks every page of the farmer list
func (l *Loader) allFarmers(ctx context.Context) ([]scheme.Farmer, error) {
	var out []scheme.Farmer
	for page := 1; ; page++ {
		p, err := l.services.Farmers.List(ctx, api.FarmerFilter{Page: page})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		if !p.HasNext() {
			return out, nil
		}
	}
}

// allPayments walks every page of the payment list
func (l *Loader) allPayments(ctx context.Context) ([]scheme.Payment, error) {
	var out []scheme.Payment
	for page := 1; ; page++ {
		p, err := l.services.Payments.List(ctx, api.PaymentFilter{Page: page})
		if err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		if !p.HasNext() {
			return out, nil
		}
	}
}
