package models

import "sort"

// CatalogEntry is one district known to the backend.
type CatalogEntry struct {
	District string `json:"district"`
	State    string `json:"state"`
	HasData  bool   `json:"has_data"`
}

// DistrictCatalog is an immutable set of known districts. Names are the authoritative keys
// used by the dashboard endpoints.
type DistrictCatalog struct {
	entries []CatalogEntry
}

// NewDistrictCatalog copies entries into a catalog sorted by state then district,
// dropping entries without a district name and exact duplicates.
func NewDistrictCatalog(entries []CatalogEntry) *DistrictCatalog {
	seen := make(map[CanonicalDistrict]int, len(entries))
	out := make([]CatalogEntry, 0, len(entries))
	for _, e := range entries {
		if e.District == "" {
			continue
		}
		key := CanonicalDistrict{District: e.District, State: e.State}
		if i, ok := seen[key]; ok {
			out[i].HasData = out[i].HasData || e.HasData
			continue
		}
		seen[key] = len(out)
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].State != out[j].State {
			return out[i].State < out[j].State
		}
		return out[i].District < out[j].District
	})
	return &DistrictCatalog{entries: out}
}

// Entries returns a copy of the catalog entries.
func (c *DistrictCatalog) Entries() []CatalogEntry {
	if c == nil {
		return nil
	}
	out := make([]CatalogEntry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of districts in the catalog.
func (c *DistrictCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// HasData reports whether the catalog lists d and has data for it.
func (c *DistrictCatalog) HasData(d CanonicalDistrict) bool {
	if c == nil {
		return false
	}
	for _, e := range c.entries {
		if e.District == d.District && e.State == d.State {
			return e.HasData
		}
	}
	return false
}
