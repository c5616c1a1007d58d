package main

import (
	"bytes"
	"strings"
	"testing"

	"registry-client/internal/models"
	"registry-client/internal/query"

	"github.com/docopt/docopt-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func parse(t *testing.T, args ...string) docopt.Opts {
	t.Helper()
	opts, err := docopt.ParseArgs(usage, args, RegistryCtlVersion)
	require.NoError(t, err)
	return opts
}

func TestUsageParsesEveryCommand(t *testing.T) {
	tests := []struct {
		args    []string
		command string
	}{
		{[]string{"list", "organizations", "--search=acme", "--sort=name", "--desc"}, "list"},
		{[]string{"get", "organization", "42", "--watch"}, "get"},
		{[]string{"delete", "coordinates", "7", "--yes"}, "delete"},
		{[]string{"submit", "--file=form.yaml", "--id=3"}, "submit"},
		{[]string{"references", "locations"}, "references"},
		{[]string{"types", "--output=json"}, "types"},
		{[]string{"ops", "dismiss", "1", "2", "3"}, "dismiss"},
		{[]string{"ops", "absorb", "1", "2"}, "absorb"},
		{[]string{"imports", "--watch"}, "imports"},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			opts := parse(t, tt.args...)
			ok, err := opts.Bool(tt.command)
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestDismissCollectsEveryID(t *testing.T) {
	opts := parse(t, "ops", "dismiss", "1", "2", "3")
	assert.Equal(t, []string{"1", "2", "3"}, opts["<org-id>"])
}

func TestApplyQuery(t *testing.T) {
	store := query.NewStore(query.OrganizationsView)
	opts := parse(t, "list", "organizations", "--search=  acme ", "--field=fullName", "--sort=rating", "--desc", "--page=2")

	require.NoError(t, applyQuery(store, opts))

	key := store.Key()
	assert.Equal(t, "  acme ", key.Search)
	assert.Equal(t, "fullName", key.SearchField)
	assert.Equal(t, "rating", key.Sort)
	assert.Equal(t, models.SortDesc, key.Dir)
	assert.Equal(t, 2, key.Page)
}

func TestApplyQueryDescendingOnDefaultSort(t *testing.T) {
	store := query.NewStore(query.CoordinatesView)
	opts := parse(t, "list", "coordinates", "--desc")

	require.NoError(t, applyQuery(store, opts))

	assert.Equal(t, "id", store.Key().Sort)
	assert.Equal(t, models.SortDesc, store.Key().Dir)
	assert.Equal(t, 0, store.Key().Page)
}

func TestApplyQueryRejectsUnknownSortField(t *testing.T) {
	store := query.NewStore(query.CoordinatesView)
	opts := parse(t, "list", "coordinates", "--sort=name")

	assert.Error(t, applyQuery(store, opts))
}

func TestParseID(t *testing.T) {
	id, err := parseID(docopt.Opts{"<id>": "42"}, "<id>")
	assert.NoError(t, err)
	assert.Equal(t, int64(42), id)

	_, err = parseID(docopt.Opts{"<id>": "0"}, "<id>")
	assert.Error(t, err)
	_, err = parseID(docopt.Opts{"<id>": "x"}, "<id>")
	assert.Error(t, err)
}

func TestPrinter(t *testing.T) {
	var buf bytes.Buffer
	p, err := newPrinter(&buf, "yaml")
	require.NoError(t, err)

	require.NoError(t, p.print(models.Coordinates{ID: 1, X: 2, Y: 3}))
	require.NoError(t, p.print(models.Coordinates{ID: 2, X: 4, Y: 5}))
	// yaml.v3 quotes the key y since YAML 1.1 reads a bare y as a boolean
	assert.Equal(t, "id: 1\nx: 2\n\"y\": 3\n---\nid: 2\nx: 4\n\"y\": 5\n", buf.String())

	dec := yaml.NewDecoder(strings.NewReader(buf.String()))
	var first, second models.Coordinates
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.Equal(t, models.Coordinates{ID: 1, X: 2, Y: 3}, first)
	assert.Equal(t, models.Coordinates{ID: 2, X: 4, Y: 5}, second)

	buf.Reset()
	p, err = newPrinter(&buf, "json")
	require.NoError(t, err)
	require.NoError(t, p.print(models.TypeCount{Type: models.OrganizationTypeTrust, Count: 3}))
	assert.Contains(t, buf.String(), `"count": 3`)

	_, err = newPrinter(&buf, "xml")
	assert.Error(t, err)
}
