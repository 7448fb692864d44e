package pagination_test

import (
	"net/url"
	"testing"

	"taskboard/internal/pagination"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeDefaults(t *testing.T) {
	p := pagination.Normalize(0, 0)
	assert.Equal(t, pagination.DefaultPage, p.Page)
	assert.Equal(t, pagination.DefaultPerPage, p.PerPage)

	p = pagination.Normalize(-3, -10)
	assert.Equal(t, pagination.DefaultPage, p.Page)
	assert.Equal(t, pagination.DefaultPerPage, p.PerPage)
}

func TestNormalizeCapsPerPage(t *testing.T) {
	p := pagination.Normalize(2, 10_000)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, pagination.MaxPerPage, p.PerPage)
}

func TestOffsetAndLimit(t *testing.T) {
	cases := []struct {
		page, perPage, offset int
	}{
		{1, 100, 0},
		{2, 100, 100},
		{3, 25, 50},
		{10, 1, 9},
	}
	for _, tc := range cases {
		p := pagination.Normalize(tc.page, tc.perPage)
		assert.Equal(t, tc.offset, p.Offset(), "page=%d per_page=%d", tc.page, tc.perPage)
		assert.Equal(t, tc.perPage, p.Limit())
	}
}

func TestFromQuery(t *testing.T) {
	p, err := pagination.FromQuery(url.Values{"page": {"3"}, "per_page": {"20"}})
	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 20, p.PerPage)
}

func TestFromQueryDefaults(t *testing.T) {
	p, err := pagination.FromQuery(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, pagination.DefaultPage, p.Page)
	assert.Equal(t, pagination.DefaultPerPage, p.PerPage)
}

func TestFromQueryInvalid(t *testing.T) {
	for _, q := range []url.Values{
		{"page": {"abc"}},
		{"page": {"0"}},
		{"page": {"-1"}},
		{"per_page": {"nope"}},
		{"per_page": {"0"}},
	} {
		_, err := pagination.FromQuery(q)
		assert.Error(t, err, "query=%v", q)
	}
}

func TestNewPageNilResults(t *testing.T) {
	page := pagination.NewPage[string](pagination.Normalize(1, 10), 0, nil)
	require.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
	assert.Equal(t, 0, page.Total)
}
