package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/limphasa/schemectl/pkg/scheme"
)

// DisciplineService manages discipline cases
type DisciplineService struct {
	client *Client
	inval  *Invalidator
}

// DisciplineFilter narrows a case list
type DisciplineFilter struct {
	Block    int64
	Section  int64
	Status   scheme.CaseStatus
	Severity scheme.CaseSeverity
	Search   string
	Page     int
}

func (f DisciplineFilter) values() url.Values {
	v := url.Values{}
	if f.Block > 0 {
		v.Set("block", strconv.FormatInt(f.Block, 10))
	}
	if f.Section > 0 {
		v.Set("section", strconv.FormatInt(f.Section, 10))
	}
	if f.Status != "" {
		v.Set("status", string(f.Status))
	}
	if f.Severity != "" {
		v.Set("severity", string(f.Severity))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// CaseDraft opens a discipline case. Block and section default to the
// farmer's assignment server-side when omitted.
type CaseDraft struct {
	Farmer             int64               `json:"farmer" validate:"required"`
	OffenceType        string              `json:"offence_type" validate:"required,oneof=absence lateness violence theft vandalism non_compliance other"`
	OffenceDescription string              `json:"offence_description" validate:"required"`
	Severity           scheme.CaseSeverity `json:"severity,omitempty" validate:"omitempty,oneof=minor moderate serious critical"`
	PenaltyPoints      int64               `json:"penalty_points,omitempty" validate:"min=0"`
	Comment            string              `json:"comment,omitempty"`
	DateIncident       string              `json:"date_incident,omitempty"`
}

// multipartFields flattens the draft for an attachment upload
func (d CaseDraft) multipartFields() map[string]string {
	return map[string]string{
		"farmer":              strconv.FormatInt(d.Farmer, 10),
		"offence_type":        d.OffenceType,
		"offence_description": d.OffenceDescription,
		"severity":            string(d.Severity),
		"penalty_points":      strconv.FormatInt(d.PenaltyPoints, 10),
		"comment":             d.Comment,
		"date_incident":       d.DateIncident,
	}
}

// List fetches discipline cases, scoped
func (s *DisciplineService) List(ctx context.Context, filter DisciplineFilter) (*scheme.Page[scheme.DisciplineCase], error) {
	var page scheme.Page[scheme.DisciplineCase]
	if err := s.client.GetScoped(ctx, "/discipline/", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create opens a case, with an optional evidence attachment
func (s *DisciplineService) Create(ctx context.Context, draft CaseDraft, attachment *FileField) (*scheme.DisciplineCase, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var c scheme.DisciplineCase
	var err error
	if attachment != nil {
		err = s.client.PostMultipart(ctx, "/discipline/", draft.multipartFields(), []FileField{*attachment}, &c)
	} else {
		err = s.client.Post(ctx, "/discipline/", draft, &c)
	}
	if err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceDiscipline, OpCreated)
	return &c, nil
}

// CasePatch is a partial case update. Status moves freely: the
// open -> closed sequence is conventional, not enforced.
type CasePatch struct {
	OffenceType        *string              `json:"offence_type,omitempty"`
	OffenceDescription *string              `json:"offence_description,omitempty"`
	ActionTaken        *string              `json:"action_taken,omitempty"`
	Status             *scheme.CaseStatus   `json:"status,omitempty"`
	Severity           *scheme.CaseSeverity `json:"severity,omitempty"`
	PenaltyPoints      *int64               `json:"penalty_points,omitempty"`
	Comment            *string              `json:"comment,omitempty"`
	DateIncident       *string              `json:"date_incident,omitempty"`
}

// Update applies a partial update to a case
func (s *DisciplineService) Update(ctx context.Context, id int64, patch CasePatch) (*scheme.DisciplineCase, error) {
	var c scheme.DisciplineCase
	if err := s.client.Patch(ctx, pathID("/discipline/", id), patch, &c); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceDiscipline, OpUpdated)
	return &c, nil
}

// Resolve closes out a case with the action taken
func (s *DisciplineService) Resolve(ctx context.Context, id int64, actionTaken string) (*scheme.DisciplineCase, error) {
	payload := map[string]string{"action_taken": actionTaken}
	var c scheme.DisciplineCase
	if err := s.client.Post(ctx, pathID("/discipline/", id)+"resolve/", payload, &c); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceDiscipline, OpResolved)
	return &c, nil
}

// Delete removes a case
func (s *DisciplineService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, pathID("/discipline/", id)); err != nil {
		return err
	}
	s.inval.Notify(ResourceDiscipline, OpDeleted)
	return nil
}

// CaseStats summarizes discipline cases
type CaseStats struct {
	TotalCases    int64 `json:"total_cases"`
	OpenCases     int64 `json:"open_cases"`
	ResolvedCases int64 `json:"resolved_cases"`
	SeriousCases  int64 `json:"serious_cases"`
}

// Stats fetches case totals
func (s *DisciplineService) Stats(ctx context.Context) (*CaseStats, error) {
	var stats CaseStats
	if err := s.client.Get(ctx, "/discipline/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
