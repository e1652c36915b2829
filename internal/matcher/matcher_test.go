package matcher

import (
	"testing"

	"mgnrega-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func gurugramCatalog() *models.DistrictCatalog {
	return models.NewDistrictCatalog([]models.CatalogEntry{
		{District: "Gurugram", State: "Haryana", HasData: true},
		{District: "Gurugram", State: "Punjab", HasData: true},
		{District: "New Delhi", State: "Delhi", HasData: true},
		{District: "Mumbai Suburban", State: "Maharashtra", HasData: true},
		{District: "Bengaluru Urban", State: "Karnataka", HasData: false},
	})
}

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		name     string
		address  models.RawAddress
		expected *models.CanonicalDistrict
	}{
		{
			name:     "exact match",
			address:  models.RawAddress{"state_district": "New Delhi", "state": "Delhi"},
			expected: &models.CanonicalDistrict{District: "New Delhi", State: "Delhi"},
		},
		{
			name:     "exact match ignores case and surrounding whitespace",
			address:  models.RawAddress{"county": "  new DELHI "},
			expected: &models.CanonicalDistrict{District: "New Delhi", State: "Delhi"},
		},
		{
			name:     "substring match disambiguated by state",
			address:  models.RawAddress{"state_district": "Gurugram District", "state": "Haryana"},
			expected: &models.CanonicalDistrict{District: "Gurugram", State: "Haryana"},
		},
		{
			name:     "ambiguous without state hint",
			address:  models.RawAddress{"state_district": "Gurugram District"},
			expected: nil,
		},
		{
			name:     "ambiguous with unrelated state",
			address:  models.RawAddress{"state_district": "Gurugram", "state": "Rajasthan"},
			expected: nil,
		},
		{
			name:     "catalog name contains the guess",
			address:  models.RawAddress{"city": "Mumbai", "state": "Maharashtra"},
			expected: &models.CanonicalDistrict{District: "Mumbai Suburban", State: "Maharashtra"},
		},
		{
			name:     "state_district wins over city",
			address:  models.RawAddress{"state_district": "New Delhi", "city": "Mumbai"},
			expected: &models.CanonicalDistrict{District: "New Delhi", State: "Delhi"},
		},
		{
			name:     "empty higher priority field falls through",
			address:  models.RawAddress{"state_district": " ", "county": "", "town": "Bengaluru Urban"},
			expected: &models.CanonicalDistrict{District: "Bengaluru Urban", State: "Karnataka"},
		},
		{
			name:     "no district fields",
			address:  models.RawAddress{"state": "Haryana"},
			expected: nil,
		},
		{
			name:     "unknown district",
			address:  models.RawAddress{"state_district": "Leh", "state": "Ladakh"},
			expected: nil,
		},
	}

	m := New()
	catalog := gurugramCatalog()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, m.Match(tt.address, catalog))
		})
	}
}

func TestMatcher_MatchIsDeterministic(t *testing.T) {
	m := New()
	addr := models.RawAddress{"state_district": "Gurugram District"}

	first := m.Match(addr, gurugramCatalog())
	for i := 0; i < 50; i++ {
		// Catalog built from reversed input must give the same answer.
		reversed := gurugramCatalog().Entries()
		for l, r := 0, len(reversed)-1; l < r; l, r = l+1, r-1 {
			reversed[l], reversed[r] = reversed[r], reversed[l]
		}
		assert.Equal(t, first, m.Match(addr, models.NewDistrictCatalog(reversed)))
	}
}

func TestMatcher_EmptyCatalog(t *testing.T) {
	m := New()

	assert.Nil(t, m.Match(models.RawAddress{"city": "Pune"}, nil))
	assert.Nil(t, m.Match(models.RawAddress{"city": "Pune"}, models.NewDistrictCatalog(nil)))
}

func TestMatcher_Guess(t *testing.T) {
	m := New()
	assert.Equal(t, "Gurugram", m.Guess(models.RawAddress{"town": "Sohna", "county": "Gurugram"}))

	custom := New(WithFields([]string{"town", "county"}))
	assert.Equal(t, "Sohna", custom.Guess(models.RawAddress{"town": "Sohna", "county": "Gurugram"}))
	assert.Equal(t, []string{"town", "county"}, custom.Fields())
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "tiruchirappalli", Normalize("  Tiruchirāppalli "))
	assert.Equal(t, "north 24 parganas", Normalize("North   24\tParganas"))
	assert.Equal(t, "", Normalize("   "))
}
