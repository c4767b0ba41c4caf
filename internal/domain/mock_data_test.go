package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

// mockPayload mirrors the REST Countries v3.1 response shape, including
// the sparse entries the live API actually serves: a territory without
// a subregion, Antarctica without languages or currencies, and a fully
// empty object.
const mockPayload = `[
  {
    "name": {"common": "Colombia", "official": "Republic of Colombia"},
    "population": 50882891,
    "area": 1141748,
    "region": "Americas",
    "subregion": "South America",
    "languages": {"spa": "Spanish"},
    "currencies": {"COP": {"name": "Colombian peso", "symbol": "$"}}
  },
  {
    "name": {"common": "India", "official": "Republic of India"},
    "population": 1380004385,
    "area": 3287590,
    "region": "Asia",
    "subregion": "Southern Asia",
    "languages": {"tam": "Tamil", "eng": "English", "hin": "Hindi"},
    "currencies": {"INR": {"name": "Indian rupee", "symbol": "₹"}}
  },
  {
    "name": {"common": "Monaco", "official": "Principality of Monaco"},
    "population": 39244,
    "area": 2.02,
    "region": "Europe",
    "subregion": "Western Europe",
    "languages": {"fra": "French"},
    "currencies": {"EUR": {"name": "Euro", "symbol": "€"}}
  },
  {
    "name": {"common": "Antarctica"},
    "population": 1000,
    "area": 14000000,
    "region": "Antarctic"
  },
  {}
]`

func loadMockCountries(t *testing.T) []RawCountry {
	t.Helper()
	var raw []RawCountry
	require.NoError(t, json.Unmarshal([]byte(mockPayload), &raw))
	require.Len(t, raw, 5)
	return raw
}
