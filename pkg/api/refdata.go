package api

import (
	"context"
	"net/url"
	"strconv"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/limphasa/schemectl/pkg/scheme"
)

const sectionCacheSize = 64

// RefDataService serves blocks, sections and locations. These change
// rarely, so sections-per-block lookups are cached until a reference
// data mutation invalidates them.
type RefDataService struct {
	client   *Client
	inval    *Invalidator
	sections *lru.Cache[int64, []scheme.Section]
}

func newRefDataService(client *Client, inval *Invalidator) *RefDataService {
	cache, _ := lru.New[int64, []scheme.Section](sectionCacheSize)
	s := &RefDataService{client: client, inval: inval, sections: cache}
	inval.Subscribe(func(ev Event) {
		if ev.Resource == ResourceRefData {
			s.sections.Purge()
		}
	})
	return s
}

// Blocks lists every block in the scheme
func (s *RefDataService) Blocks(ctx context.Context) ([]scheme.Block, error) {
	var page scheme.Page[scheme.Block]
	if err := s.client.Get(ctx, "/farmers/blocks/", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Locations lists every location in the scheme
func (s *RefDataService) Locations(ctx context.Context) ([]scheme.Location, error) {
	var page scheme.Page[scheme.Location]
	if err := s.client.Get(ctx, "/farmers/locations/", nil, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// Sections lists every section, optionally narrowed to one block
func (s *RefDataService) Sections(ctx context.Context, blockID int64) ([]scheme.Section, error) {
	query := url.Values{}
	if blockID > 0 {
		query.Set("block_id", strconv.FormatInt(blockID, 10))
	}
	var page scheme.Page[scheme.Section]
	if err := s.client.Get(ctx, "/farmers/sections/", query, &page); err != nil {
		return nil, err
	}
	return page.Results, nil
}

// SectionsForBlock resolves the sections of one block, serving repeat
// lookups from cache. Forms re-resolve this on every block change.
func (s *RefDataService) SectionsForBlock(ctx context.Context, blockID int64) ([]scheme.Section, error) {
	if cached, ok := s.sections.Get(blockID); ok {
		return cached, nil
	}
	query := url.Values{}
	query.Set("block_id", strconv.FormatInt(blockID, 10))
	var page scheme.Page[scheme.Section]
	if err := s.client.Get(ctx, "/accounts/filtered-sections/", query, &page); err != nil {
		return nil, err
	}
	s.sections.Add(blockID, page.Results)
	return page.Results, nil
}

// BlockDraft names a new block
type BlockDraft struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
}

// CreateBlock adds a block
func (s *RefDataService) CreateBlock(ctx context.Context, draft BlockDraft) (*scheme.Block, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var block scheme.Block
	if err := s.client.Post(ctx, "/farmers/blocks/", draft, &block); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceRefData, OpCreated)
	return &block, nil
}

// SectionDraft names a new section within a block
type SectionDraft struct {
	Name  string `json:"name" validate:"required"`
	Block int64  `json:"block" validate:"required"`
}

// CreateSection adds a section to a block
func (s *RefDataService) CreateSection(ctx context.Context, draft SectionDraft) (*scheme.Section, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var section scheme.Section
	if err := s.client.Post(ctx, "/farmers/sections/", draft, &section); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceRefData, OpCreated)
	return &section, nil
}

// LocationDraft names a new location
type LocationDraft struct {
	Name string `json:"name" validate:"required"`
}

// CreateLocation adds a location
func (s *RefDataService) CreateLocation(ctx context.Context, draft LocationDraft) (*scheme.Location, error) {
	if err := validateDraft(draft); err != nil {
		return nil, err
	}
	var location scheme.Location
	if err := s.client.Post(ctx, "/farmers/locations/", draft, &location); err != nil {
		return nil, err
	}
	s.inval.Notify(ResourceRefData, OpCreated)
	return &location, nil
}
