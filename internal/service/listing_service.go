package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/store"
)

type listingStore interface {
	ReadAll(ctx context.Context) ([]store.Record, error)
}

// ListingService decides which records a caller may see and shapes the
// response.
type ListingService struct {
	store  listingStore
	auth   authorizer
	logger *zap.Logger
}

// NewListingService constructs the service.
func NewListingService(st listingStore, auth authorizer, logger *zap.Logger) *ListingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListingService{store: st, auth: auth, logger: logger}
}

// ListRequest carries the caller's credential (zero value = public view) and
// an optional search term.
type ListRequest struct {
	Credential Credential
	Query      string
}

// List returns the visible records for the caller.
//
// With a credential every record is returned, sorted pending first, then
// approved, then rejected, stable within each group. A wrong credential
// fails outright; there is no silent fallback to the public view. Without a
// credential only approved records are returned, in storage order.
//
// Blank-name artifact rows are dropped before any status logic, in every
// view. Status is already defaulted by the store's self-healing read, so an
// unset status can never leak into the public view as approved.
func (s *ListingService) List(ctx context.Context, req ListRequest) ([]models.Restaurant, error) {
	moderator := req.Credential.Present()
	if moderator {
		if err := s.auth.Authorize(req.Credential); err != nil {
			return nil, err
		}
	}

	records, err := s.store.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]models.Restaurant, 0, len(records))
	for _, rec := range records {
		if rec.Name == "" {
			continue
		}
		if !moderator && rec.Status != models.StatusApproved {
			continue
		}
		result = append(result, rec.Restaurant)
	}

	if req.Query != "" {
		result = filterByQuery(result, req.Query)
	}

	if moderator {
		sort.SliceStable(result, func(i, j int) bool {
			return statusRank(result[i].Status) < statusRank(result[j].Status)
		})
	}

	return result, nil
}

func statusRank(s models.Status) int {
	switch s {
	case models.StatusPending:
		return 0
	case models.StatusApproved:
		return 1
	default:
		return 2
	}
}

// filterByQuery keeps records whose name, city or kashrut contains the term,
// case-insensitively.
func filterByQuery(records []models.Restaurant, query string) []models.Restaurant {
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return records
	}
	filtered := records[:0]
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), term) ||
			strings.Contains(strings.ToLower(r.City), term) ||
			strings.Contains(strings.ToLower(r.Kashrut), term) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
