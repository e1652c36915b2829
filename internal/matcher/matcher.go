// Package matcher maps a free-text geocoded address onto a district of the backend catalog.
package matcher

import (
	"strings"

	"mgnrega-api/internal/models"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Matcher picks the best district label from an address and looks it up in a catalog.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	fields []string
	logger zerolog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithFields replaces the ordered list of address fields tried for the district label.
func WithFields(fields []string) Option {
	return func(m *Matcher) {
		if len(fields) > 0 {
			m.fields = append([]string(nil), fields...)
		}
	}
}

// WithLogger replaces the global logger.
func WithLogger(l zerolog.Logger) Option {
	return func(m *Matcher) { m.logger = l }
}

// New creates a Matcher using models.DistrictFields unless overridden.
func New(opts ...Option) *Matcher {
	m := &Matcher{
		fields: models.DistrictFields,
		logger: log.Logger,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Fields returns the extraction order in use.
func (m *Matcher) Fields() []string {
	return append([]string(nil), m.fields...)
}

// Guess returns the first non-empty address field in priority order.
func (m *Matcher) Guess(addr models.RawAddress) string {
	return addr.First(m.fields)
}

// Match returns the catalog district for addr, or nil when there is none or the
// candidates disagree and the address state cannot settle it.
func (m *Matcher) Match(addr models.RawAddress, catalog *models.DistrictCatalog) *models.CanonicalDistrict {
	guess := Normalize(m.Guess(addr))
	if guess == "" || catalog.Len() == 0 {
		return nil
	}
	entries := catalog.Entries()

	candidates := filter(entries, func(name string) bool { return name == guess })
	if len(candidates) == 0 {
		candidates = filter(entries, func(name string) bool {
			return strings.Contains(guess, name) || strings.Contains(name, guess)
		})
	}

	switch len(candidates) {
	case 0:
		return nil
	case 1:
		return canonical(candidates[0])
	}

	state := Normalize(addr.State())
	if state != "" {
		var inState []models.CatalogEntry
		for _, c := range candidates {
			if s := Normalize(c.State); s != "" && strings.Contains(state, s) {
				inState = append(inState, c)
			}
		}
		if len(inState) == 1 {
			return canonical(inState[0])
		}
	}

	m.logger.Debug().
		Str("guess", guess).
		Str("state", state).
		Int("candidates", len(candidates)).
		Msg("ambiguous district match")
	return nil
}

func filter(entries []models.CatalogEntry, keep func(name string) bool) []models.CatalogEntry {
	var out []models.CatalogEntry
	for _, e := range entries {
		name := Normalize(e.District)
		if name == "" {
			continue
		}
		if keep(name) {
			out = append(out, e)
		}
	}
	return out
}

func canonical(e models.CatalogEntry) *models.CanonicalDistrict {
	return &models.CanonicalDistrict{District: e.District, State: e.State}
}
