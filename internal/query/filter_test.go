package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RoGogDBD/inventory/internal/models"
)

func TestBuildFilterMalformedBounds(t *testing.T) {
	f := BuildFilter("", "", "abc", "NaN")
	assert.Nil(t, f.MinPrice)
	assert.Nil(t, f.MaxPrice)
	assert.True(t, f.IsEmpty())

	f = BuildFilter("  ", "", "", "15.5")
	assert.Empty(t, f.Search)
	require.NotNil(t, f.MaxPrice)
	assert.Equal(t, 15.5, *f.MaxPrice)
}

func TestFilterSqlizer(t *testing.T) {
	tests := []struct {
		name     string
		filter   Filter
		wantSQL  string
		wantArgs []interface{}
	}{
		{
			name:    "empty",
			filter:  BuildFilter("", "", "", ""),
			wantSQL: "(1=1)",
		},
		{
			name:     "search",
			filter:   BuildFilter("cable", "", "", ""),
			wantSQL:  "((name ILIKE ? OR description ILIKE ?))",
			wantArgs: []interface{}{"%cable%", "%cable%"},
		},
		{
			name:     "all predicates",
			filter:   BuildFilter("usb", "tools", "10", "20"),
			wantSQL:  "((name ILIKE ? OR description ILIKE ?) AND category ILIKE ? AND price >= ? AND price <= ?)",
			wantArgs: []interface{}{"%usb%", "%usb%", "%tools%", 10.0, 20.0},
		},
		{
			name:     "only upper bound",
			filter:   BuildFilter("", "", "", "20"),
			wantSQL:  "(price <= ?)",
			wantArgs: []interface{}{20.0},
		},
		{
			name:     "like metacharacters escaped",
			filter:   BuildFilter("50%_off\\", "", "", ""),
			wantSQL:  "((name ILIKE ? OR description ILIKE ?))",
			wantArgs: []interface{}{`%50\%\_off\\%`, `%50\%\_off\\%`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.filter.Sqlizer().ToSql()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if len(tt.wantArgs) == 0 {
				assert.Empty(t, args)
				return
			}
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestFilterMatch(t *testing.T) {
	items := []models.Item{
		{Name: "USB Cable", Price: 10, Category: "Electronics"},
		{Name: "Adapter", Description: "HDMI cable 2m", Price: 20, Category: "electronics"},
		{Name: "Hammer", Price: 9.99, Category: "Tools"},
		{Name: "Drill", Price: 20.01},
	}

	matching := func(f Filter) []string {
		var names []string
		for _, it := range items {
			if f.Match(it) {
				names = append(names, it.Name)
			}
		}
		return names
	}

	assert.Equal(t, []string{"USB Cable", "Adapter"}, matching(BuildFilter("CABLE", "", "", "")))
	assert.Equal(t, []string{"USB Cable", "Adapter"}, matching(BuildFilter("", "", "10", "20")))
	assert.Equal(t, []string{"USB Cable", "Adapter"}, matching(BuildFilter("", "ELECTRO", "", "")))
	assert.Equal(t, []string{"Hammer"}, matching(BuildFilter("", "", "", "9.99")))
	assert.Equal(t, []string{"Adapter"}, matching(BuildFilter("cable", "", "15", "")))
	assert.Len(t, matching(BuildFilter("", "", "", "")), len(items))
}

func TestLowStockSqlizer(t *testing.T) {
	sql, args, err := LowStock{Threshold: 5}.Sqlizer().ToSql()
	require.NoError(t, err)
	assert.Equal(t, "quantity < ?", sql)
	assert.Equal(t, []interface{}{5}, args)
}
