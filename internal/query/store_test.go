package query

import (
	"errors"
	"math/rand"
	"testing"

	apperrors "registry-client/internal/errors"
	"registry-client/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreDefaults(t *testing.T) {
	s := NewStore(OrganizationsView)
	assert.Equal(t, Key{SearchField: "name", Sort: "id", Dir: models.SortAsc}, s.Key())

	s = NewStore(CoordinatesView)
	assert.Equal(t, Key{Sort: "id", Dir: models.SortAsc}, s.Key())
}

func TestSetSortTogglesDirection(t *testing.T) {
	s := NewStore(OrganizationsView)
	require.NoError(t, s.SetPage(3))

	require.NoError(t, s.SetSort("name"))
	assert.Equal(t, "name", s.Key().Sort)
	assert.Equal(t, models.SortAsc, s.Key().Dir)
	assert.Equal(t, 0, s.Key().Page)

	require.NoError(t, s.SetSort("name"))
	assert.Equal(t, models.SortDesc, s.Key().Dir)

	require.NoError(t, s.SetSort("rating"))
	assert.Equal(t, "rating", s.Key().Sort)
	assert.Equal(t, models.SortAsc, s.Key().Dir)
}

func TestSetSearchResetsPage(t *testing.T) {
	s := NewStore(OrganizationsView)
	require.NoError(t, s.SetPage(2))

	require.NoError(t, s.SetSearch("acme", "fullName"))
	assert.Equal(t, Key{Search: "acme", SearchField: "fullName", Sort: "id", Dir: models.SortAsc}, s.Key())

	require.NoError(t, s.SetSearch("globex", ""))
	assert.Equal(t, "fullName", s.Key().SearchField)
}

func TestValidation(t *testing.T) {
	s := NewStore(OrganizationsView)

	err := s.SetSearch("x", "employeesCount")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownSearchField))

	err = s.SetSort("nope")
	assert.True(t, errors.Is(err, apperrors.ErrUnknownSortField))

	err = s.SetPage(-1)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidPage))

	assert.Equal(t, Key{SearchField: "name", Sort: "id", Dir: models.SortAsc}, s.Key())

	refs := NewStore(LocationsView)
	assert.True(t, errors.Is(refs.SetSearch("springfield", ""), apperrors.ErrUnknownSearchField))
	assert.NoError(t, refs.SetSearch("  ", ""))
}

func TestListQuery(t *testing.T) {
	s := NewStore(OrganizationsView.WithPageSize(25))

	q := s.ListQuery()
	assert.Equal(t, 25, q.Size)
	assert.Empty(t, q.Search)
	assert.Empty(t, q.SearchField)

	require.NoError(t, s.SetSearch("  acme ", "postalAddress.town.name"))
	require.NoError(t, s.SetPage(1))
	q = s.ListQuery()
	assert.Equal(t, "acme", q.Search)
	assert.Equal(t, "postalAddress.town.name", q.SearchField)
	assert.Equal(t, 1, q.Page)
	assert.Equal(t, "id", q.Sort)
	assert.Equal(t, models.SortAsc, q.Dir)
}

func TestOnChangeOnlyOnRealChanges(t *testing.T) {
	s := NewStore(OrganizationsView)

	var seen []Key
	cancel := s.OnChange(func(k Key) { seen = append(seen, k) })

	require.NoError(t, s.SetPage(0))
	require.NoError(t, s.SetSearch("", ""))
	assert.Empty(t, seen)

	require.NoError(t, s.SetPage(1))
	require.NoError(t, s.SetPage(1))
	assert.Len(t, seen, 1)

	cancel()
	require.NoError(t, s.SetPage(2))
	assert.Len(t, seen, 1)
}

// Random mutation sequences: the key changes exactly when one of its fields
// changes, and a listener fires exactly then.
func TestKeyChangesIffStateChanges(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	texts := []string{"", "a", "acme", " acme"}
	fields := append([]string{""}, OrganizationsView.SearchFields...)

	s := NewStore(OrganizationsView)
	notified := 0
	s.OnChange(func(Key) { notified++ })

	for i := 0; i < 2000; i++ {
		before := s.Key()
		notifiedBefore := notified

		switch rng.Intn(3) {
		case 0:
			require.NoError(t, s.SetSearch(texts[rng.Intn(len(texts))], fields[rng.Intn(len(fields))]))
		case 1:
			require.NoError(t, s.SetSort(OrganizationsView.SortFields[rng.Intn(3)]))
		case 2:
			require.NoError(t, s.SetPage(rng.Intn(3)))
		}

		after := s.Key()
		fieldsChanged := before.Search != after.Search ||
			before.SearchField != after.SearchField ||
			before.Page != after.Page ||
			before.Sort != after.Sort ||
			before.Dir != after.Dir

		assert.Equal(t, fieldsChanged, before != after)
		assert.Equal(t, fieldsChanged, notified == notifiedBefore+1)
		if !fieldsChanged {
			assert.Equal(t, notifiedBefore, notified)
		}
	}
}

func TestViewFor(t *testing.T) {
	for _, c := range models.Collections {
		v, ok := ViewFor(c)
		require.True(t, ok, c)
		assert.Equal(t, c, v.Collection)
		assert.True(t, v.AllowsSort(v.DefaultSort))
	}
	_, ok := ViewFor("unknown")
	assert.False(t, ok)
}
