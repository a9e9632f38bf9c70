package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/limphasa/schemectl/pkg/scheme"
)

// FarmersService manages the farmer registry
type FarmersService struct {
	client *Client
	inval  *Invalidator
}

// FarmerFilter narrows a farmer list. For a block chair the block and
// section are overridden by their own scope regardless of what is set
// here.
type FarmerFilter struct {
	Block    int64
	Section  int64
	Location int64
	Search   string
	Page     int
}

func (f FarmerFilter) values() url.Values {
	v := url.Values{}
	if f.Block > 0 {
		v.Set("block", strconv.FormatInt(f.Block, 10))
	}
	if f.Section > 0 {
		v.Set("section", strconv.FormatInt(f.Section, 10))
	}
	if f.Location > 0 {
		v.Set("location", strconv.FormatInt(f.Location, 10))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// FarmerDraft is a new farmer registration
type FarmerDraft struct {
	FirstName     string  `json:"first_name" validate:"required"`
	LastName      string  `json:"last_name" validate:"required"`
	MiddleName    string  `json:"middle_name,omitempty"`
	Gender        string  `json:"gender" validate:"required,oneof=male female other"`
	PhoneNumber   string  `json:"phone_number" validate:"required"`
	Email         string  `json:"email,omitempty" validate:"omitempty,email"`
	NumberOfPlots int64   `json:"number_of_plots" validate:"required,min=1"`
	AmountPerPlot float64 `json:"amount_per_plot" validate:"required,gt=0"`
	Location      int64   `json:"location" validate:"required"`
	Block         int64   `json:"block" validate:"required"`
	Section       int64   `json:"section" validate:"required"`
	NextOfKin     string  `json:"next_of_kin,omitempty"`
}

// multipartFields flattens the draft for a photo upload request
func (d FarmerDraft) multipartFields() map[string]string {
	return map[string]string{
		"first_name":      d.FirstName,
		"last_name":       d.LastName,
		"middle_name":     d.MiddleName,
		"gender":          d.Gender,
		"phone_number":    d.PhoneNumber,
		"email":           d.Email,
		"number_of_plots": strconv.FormatInt(d.NumberOfPlots, 10),
		"amount_per_plot": strconv.FormatFloat(d.AmountPerPlot, 'f', 2, 64),
		"location":        strconv.FormatInt(d.Location, 10),
		"block":           strconv.FormatInt(d.Block, 10),
		"section":         strconv.FormatInt(d.Section, 10),
		"next_of_kin":     d.NextOfKin,
	}
}

// List fetches farmers, scoped and paginated
func (s *FarmersService) List(ctx context.Context, filter FarmerFilter) (*scheme.Page[scheme.Farmer], error) {
	var page scheme.Page[scheme.Farmer]
	if err := s.client.GetScoped(ctx, "/farmers/farmers/", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create registers a farmer. A photo, when provided, switches the
// request to multipart; the caller only declares the file.
func (s *FarmersService) Create(ctx context.Context, draft FarmerDraft, photo *FileField) (*scheme.Farmer, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var farmer scheme.Farmer
	var err error
	if photo != nil {
		err = s.client.PostMultipart(ctx, "/farmers/farmers/", draft.multipartFields(), []FileField{*photo}, &farmer)
	} else {
		err = s.client.Post(ctx, "/farmers/farmers/", draft, &farmer)
	}
	if err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceFarmers, OpCreated)
	return &farmer, nil
}

// FarmerPatch is a partial farmer update; nil fields are left unchanged
type FarmerPatch struct {
	FirstName     *string  `json:"first_name,omitempty"`
	LastName      *string  `json:"last_name,omitempty"`
	MiddleName    *string  `json:"middle_name,omitempty"`
	Gender        *string  `json:"gender,omitempty"`
	PhoneNumber   *string  `json:"phone_number,omitempty"`
	Email         *string  `json:"email,omitempty"`
	NumberOfPlots *int64   `json:"number_of_plots,omitempty"`
	AmountPerPlot *float64 `json:"amount_per_plot,omitempty"`
	Location      *int64   `json:"location,omitempty"`
	Block         *int64   `json:"block,omitempty"`
	Section       *int64   `json:"section,omitempty"`
	NextOfKin     *string  `json:"next_of_kin,omitempty"`
	IsActive      *bool    `json:"is_active,omitempty"`
}

// Update applies a partial update to a farmer
func (s *FarmersService) Update(ctx context.Context, id int64, patch FarmerPatch) (*scheme.Farmer, error) {
	var farmer scheme.Farmer
	if err := s.client.Put(ctx, pathID("/farmers/farmers/", id), patch, &farmer); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceFarmers, OpUpdated)
	return &farmer, nil
}

// UpdatePhoto replaces a farmer's photo without touching other fields
func (s *FarmersService) UpdatePhoto(ctx context.Context, id int64, photo FileField) (*scheme.Farmer, error) {
	var farmer scheme.Farmer
	if err := s.client.PatchMultipart(ctx, pathID("/farmers/farmers/", id), nil, []FileField{photo}, &farmer); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceFarmers, OpUpdated)
	return &farmer, nil
}

// Delete deactivates a farmer (the server soft-deletes)
func (s *FarmersService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, pathID("/farmers/farmers/", id)); err != nil {
		return err
	}
	s.inval.Notify(ResourceFarmers, OpDeleted)
	return nil
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalFarmers   int64          `json:"total_farmers"`
	AttendanceRate float64        `json:"attendance_rate"`
	FinesCollected float64        `json:"fines_collected"`
	PlotsSummary   []PlotsSummary `json:"plots_summary"`
	TopUnpaid      []UnpaidFarmer `json:"top_unpaid"`
}

// PlotsSummary aggregates plots per block/section
type PlotsSummary struct {
	BlockName   string `json:"block__name"`
	SectionName string `json:"section__name"`
	TotalPlots  int64  `json:"total_plots"`
}

// UnpaidFarmer is one entry of the outstanding-balance leaderboard
type UnpaidFarmer struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Block       string  `json:"block"`
	Section     string  `json:"section"`
	Outstanding float64 `json:"paid"`
}

// DashboardStats fetches the admin dashboard summary
func (s *FarmersService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	var stats DashboardStats
	if err := s.client.Get(ctx, "/farmers/dashboard/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
