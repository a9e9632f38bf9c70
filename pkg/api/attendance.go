package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/limphasa/schemectl/pkg/policy"
	"github.com/limphasa/schemectl/pkg/scheme"
)

// AttendanceService manages attendance records
type AttendanceService struct {
	client *Client
	inval  *Invalidator
}

// AttendanceFilter narrows an attendance list
type AttendanceFilter struct {
	Block   int64
	Section int64
	Status  scheme.AttendanceStatus
	Date    string
	Page    int
}

func (f AttendanceFilter) values() url.Values {
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
	if f.Date != "" {
		v.Set("date", f.Date)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// AttendanceDraft records one farmer at one activity
type AttendanceDraft struct {
	Farmer         int64                   `json:"farmer" validate:"required"`
	Block          int64                   `json:"block,omitempty"`
	Section        int64                   `json:"section,omitempty"`
	Date           string                  `json:"date" validate:"required"`
	AttendanceType string                  `json:"attendance_type" validate:"required,oneof=general_assembly main_canal_cleaning block_canal_cleaning training field_inspection"`
	Status         scheme.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Comment        string                  `json:"comment,omitempty"`
	PenaltyPoints  int64                   `json:"penalty_points,omitempty" validate:"min=0"`
}

// List fetches attendance records, scoped
func (s *AttendanceService) List(ctx context.Context, filter AttendanceFilter) (*scheme.Page[scheme.AttendanceRecord], error) {
	var page scheme.Page[scheme.AttendanceRecord]
	if err := s.client.GetScoped(ctx, "/attendance/", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Record creates an attendance record. A block chair's submission is
// pinned to their own block and section: empty values are pre-filled,
// values outside the scope are rejected before they reach the server.
// Penalty points only apply to absences; they are dropped otherwise.
func (s *AttendanceService) Record(ctx context.Context, draft AttendanceDraft) (*scheme.AttendanceRecord, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	if scope := policy.QueryScope(s.client.sessions.User()); !scope.IsZero() {
		if draft.Block == 0 {
			draft.Block = scope.Block
		}
		if draft.Section == 0 {
			draft.Section = scope.Section
		}
		if draft.Block != scope.Block || draft.Section != scope.Section {
			return nil, &Error{Kind: KindValidation, Fields: map[string]string{
				"block": "attendance can only be recorded for your own block and section",
			}}
		}
	}
	if draft.Status != scheme.AttendanceAbsent {
		draft.PenaltyPoints = 0
	}

	var record scheme.AttendanceRecord
	if err := s.client.Post(ctx, "/attendance/", draft, &record); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceAttendance, OpCreated)
	return &record, nil
}

// AttendanceStats summarizes records by status
type AttendanceStats struct {
	Total   int64 `json:"total"`
	Present int64 `json:"present"`
	Absent  int64 `json:"absent"`
	Late    int64 `json:"late"`
	Excused int64 `json:"excused"`
}

// Stats fetches attendance totals. The server pins a block chair to
// their own block; other roles may pass blockID (0 for all blocks).
func (s *AttendanceService) Stats(ctx context.Context, blockID int64) (*AttendanceStats, error) {
	query := url.Values{}
	if blockID > 0 {
		query.Set("block_id", strconv.FormatInt(blockID, 10))
	}
	var stats AttendanceStats
	if err := s.client.Get(ctx, "/attendance/stats/", query, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// ResetPenalties zeroes the accumulated attendance penalties for one
// farmer. Admin only; other roles get Forbidden from the server.
func (s *AttendanceService) ResetPenalties(ctx context.Context, farmerID int64) error {
	if err := s.client.Post(ctx, pathID("/attendance/penalties/reset/", farmerID), nil, nil); err != nil {
		return err
	}
	s.inval.Notify(ResourceAttendance, OpUpdated)
	return nil
}
