package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/limphasa/schemectl/pkg/scheme"
)

// PaymentsService manages payment records
type PaymentsService struct {
	client *Client
	inval  *Invalidator
}

// PaymentFilter narrows a payment list
type PaymentFilter struct {
	Farmer      int64
	PaymentType string
	Method      string
	Verified    *bool
	Search      string
	Page        int
}

func (f PaymentFilter) values() url.Values {
	v := url.Values{}
	if f.Farmer > 0 {
		v.Set("farmer", strconv.FormatInt(f.Farmer, 10))
	}
	if f.PaymentType != "" {
		v.Set("payment_type", f.PaymentType)
	}
	if f.Method != "" {
		v.Set("method", f.Method)
	}
	if f.Verified != nil {
		v.Set("is_verified", strconv.FormatBool(*f.Verified))
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// PaymentDraft records money received from a farmer
type PaymentDraft struct {
	Farmer        int64   `json:"farmer" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentType   string  `json:"payment_type" validate:"required,oneof=plot_fee fine contribution other"`
	Description   string  `json:"description" validate:"required"`
	DatePaid      string  `json:"date_paid" validate:"required"`
	Method        string  `json:"method" validate:"required,oneof=cash airtel tnm bank other"`
	ReferenceCode string  `json:"reference_code,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

// multipartFields flattens the draft for a receipt upload
func (d PaymentDraft) multipartFields() map[string]string {
	return map[string]string{
		"farmer":         strconv.FormatInt(d.Farmer, 10),
		"amount":         strconv.FormatFloat(d.Amount, 'f', 2, 64),
		"payment_type":   d.PaymentType,
		"description":    d.Description,
		"date_paid":      d.DatePaid,
		"method":         d.Method,
		"reference_code": d.ReferenceCode,
		"notes":          d.Notes,
	}
}

// List fetches payments, scoped
func (s *PaymentsService) List(ctx context.Context, filter PaymentFilter) (*scheme.Page[scheme.Payment], error) {
	var page scheme.Page[scheme.Payment]
	if err := s.client.GetScoped(ctx, "/payments/", filter.values(), &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Create records a payment, with an optional receipt attachment. Never
// retried: a duplicate submission would double-count money.
func (s *PaymentsService) Create(ctx context.Context, draft PaymentDraft, receipt *FileField) (*scheme.Payment, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var payment scheme.Payment
	var err error
	if receipt != nil {
		err = s.client.PostMultipart(ctx, "/payments/", draft.multipartFields(), []FileField{*receipt}, &payment)
	} else {
		err = s.client.Post(ctx, "/payments/", draft, &payment)
	}
	if err != nil {
		return nil, err
	}
	s.inval.Notify(ResourcePayments, OpCreated)
	return &payment, nil
}

// PaymentPatch is a partial payment update
type PaymentPatch struct {
	Amount        *float64 `json:"amount,omitempty"`
	PaymentType   *string  `json:"payment_type,omitempty"`
	Description   *string  `json:"description,omitempty"`
	DatePaid      *string  `json:"date_paid,omitempty"`
	Method        *string  `json:"method,omitempty"`
	ReferenceCode *string  `json:"reference_code,omitempty"`
	Notes         *string  `json:"notes,omitempty"`
}

// Update applies a partial update to a payment
func (s *PaymentsService) Update(ctx context.Context, id int64, patch PaymentPatch) (*scheme.Payment, error) {
	var payment scheme.Payment
	if err := s.client.Patch(ctx, pathID("/payments/", id), patch, &payment); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourcePayments, OpUpdated)
	return &payment, nil
}

// Verify marks a payment as verified. Verifying an already-verified
// payment fails validation server-side.
func (s *PaymentsService) Verify(ctx context.Context, id int64) (*scheme.Payment, error) {
	var payment scheme.Payment
	if err := s.client.Post(ctx, pathID("/payments/", id)+"verify/", nil, &payment); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourcePayments, OpVerified)
	return &payment, nil
}

// Delete removes a payment
func (s *PaymentsService) Delete(ctx context.Context, id int64) error {
	if err := s.client.Delete(ctx, pathID("/payments/", id)); err != nil {
		return err
	}
	s.inval.Notify(ResourcePayments, OpDeleted)
	return nil
}

// AmountCount pairs a record count with a money total
type AmountCount struct {
	Count  int64   `json:"id__count"`
	Amount float64 `json:"amount__sum"`
}

// TypeBreakdown groups payment totals by type
type TypeBreakdown struct {
	PaymentType string  `json:"payment_type"`
	Count       int64   `json:"count"`
	Amount      float64 `json:"amount"`
}

// PaymentStats summarizes payments over several windows
type PaymentStats struct {
	TotalPayments int64           `json:"total_payments"`
	TotalAmount   float64         `json:"total_amount"`
	Today         AmountCount     `json:"today"`
	LastWeek      AmountCount     `json:"last_week"`
	LastMonth     AmountCount     `json:"last_month"`
	ByType        []TypeBreakdown `json:"by_type"`
	Verification  struct {
		Verified   int64 `json:"verified"`
		Unverified int64 `json:"unverified"`
	} `json:"verification_stats"`
}

// Stats fetches payment totals; the server pins a block chair to their
// own block.
func (s *PaymentsService) Stats(ctx context.Context) (*PaymentStats, error) {
	var stats PaymentStats
	if err := s.client.Get(ctx, "/payments/stats/", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
