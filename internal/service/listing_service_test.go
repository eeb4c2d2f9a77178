package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dassimern/kosher-directory-api/internal/models"
	"github.com/dassimern/kosher-directory-api/internal/store"
	appErrors "github.com/dassimern/kosher-directory-api/pkg/errors"
)

type mockListingStore struct {
	records []store.Record
	err     error
}

func (m *mockListingStore) ReadAll(ctx context.Context) ([]store.Record, error) {
	return m.records, m.err
}

func directoryFixture() []store.Record {
	return []store.Record{
		{Pos: 2, Restaurant: models.Restaurant{ID: "R1", Name: "Aleph", City: "ירושלים", Kashrut: "Rabbanut", Status: models.StatusApproved}},
		{Pos: 3, Restaurant: models.Restaurant{ID: "R2", Name: "Bet", City: "תל אביב", Kashrut: "Badatz", Status: models.StatusPending}},
		{Pos: 4, Restaurant: models.Restaurant{Status: ""}}, // blank artifact row
		{Pos: 5, Restaurant: models.Restaurant{ID: "R3", Name: "Gimel", City: "חיפה", Kashrut: "Rabbanut", Status: models.StatusRejected}},
		{Pos: 6, Restaurant: models.Restaurant{ID: "R4", Name: "Dalet", City: "ירושלים", Kashrut: "Badatz", Status: models.StatusApproved}},
	}
}

func TestListPublicReturnsOnlyApprovedInStorageOrder(t *testing.T) {
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, &mockAuthorizer{}, zap.NewNop())

	result, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	require.Len(t, result, 2)
	assert.Equal(t, "R1", result[0].ID)
	assert.Equal(t, "R4", result[1].ID)
}

func TestListPublicSkipsAuthorization(t *testing.T) {
	auth := &mockAuthorizer{err: appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")}
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, auth, zap.NewNop())

	_, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	assert.False(t, auth.called, "anonymous callers never hit the authorizer")
}

func TestListModeratorSeesEverythingPendingFirst(t *testing.T) {
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, &mockAuthorizer{}, zap.NewNop())

	result, err := svc.List(context.Background(), ListRequest{Credential: Credential{Password: "secret"}})
	require.NoError(t, err)
	require.Len(t, result, 4)

	assert.Equal(t, models.StatusPending, result[0].Status)
	assert.Equal(t, "R2", result[0].ID)
	// Approved keep storage order relative to each other.
	assert.Equal(t, "R1", result[1].ID)
	assert.Equal(t, "R4", result[2].ID)
	assert.Equal(t, models.StatusRejected, result[3].Status)
}

func TestListWrongCredentialFailsOutright(t *testing.T) {
	auth := &mockAuthorizer{err: appErrors.Clone(appErrors.ErrUnauthorized, "Invalid password")}
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, auth, zap.NewNop())

	_, err := svc.List(context.Background(), ListRequest{Credential: Credential{Password: "wrong"}})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}

func TestListDropsBlankNameRowsInBothViews(t *testing.T) {
	records := directoryFixture()
	svc := NewListingService(&mockListingStore{records: records}, &mockAuthorizer{}, zap.NewNop())
	ctx := context.Background()

	public, err := svc.List(ctx, ListRequest{})
	require.NoError(t, err)
	moderator, err := svc.List(ctx, ListRequest{Credential: Credential{Password: "secret"}})
	require.NoError(t, err)

	for _, r := range append(public, moderator...) {
		assert.NotEmpty(t, r.Name)
	}
}

func TestListQueryFiltersNameCityKashrut(t *testing.T) {
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, &mockAuthorizer{}, zap.NewNop())
	ctx := context.Background()
	cred := Credential{Password: "secret"}

	byName, err := svc.List(ctx, ListRequest{Credential: cred, Query: "aleph"})
	require.NoError(t, err)
	require.Len(t, byName, 1)
	assert.Equal(t, "R1", byName[0].ID)

	byCity, err := svc.List(ctx, ListRequest{Credential: cred, Query: "ירושלים"})
	require.NoError(t, err)
	assert.Len(t, byCity, 2)

	byKashrut, err := svc.List(ctx, ListRequest{Credential: cred, Query: "badatz"})
	require.NoError(t, err)
	assert.Len(t, byKashrut, 2)

	none, err := svc.List(ctx, ListRequest{Credential: cred, Query: "no such place"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListWhitespaceQueryIsIgnored(t *testing.T) {
	svc := NewListingService(&mockListingStore{records: directoryFixture()}, &mockAuthorizer{}, zap.NewNop())

	result, err := svc.List(context.Background(), ListRequest{Query: "   "})
	require.NoError(t, err)
	assert.Len(t, result, 2)
}

func TestListEmptyDirectory(t *testing.T) {
	svc := NewListingService(&mockListingStore{}, &mockAuthorizer{}, zap.NewNop())

	result, err := svc.List(context.Background(), ListRequest{})
	require.NoError(t, err)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}
