package catalog

import (
	"sort"

	"golang.org/x/text/currency"
)

// Registry a source of currency codes considered valid by the host platform
type Registry interface {
	Codes() []string
}

// ISORegistry the ISO 4217 registry shipped with golang.org/x/text,
// including historical and non-tender currencies.
type ISORegistry struct{}

// Codes lists every ISO 4217 code known to the registry, sorted
func (ISORegistry) Codes() []string {
	seen := map[string]struct{}{}
	iter := currency.Query(currency.Historical, currency.NonTender)
	for iter.Next() {
		seen[iter.Unit().String()] = struct{}{}
	}
	codes := make([]string, 0, len(seen))
	for code := range seen {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// StaticRegistry a fixed list of codes
type StaticRegistry []string

func (r StaticRegistry) Codes() []string {
	return r
}

// Intersect returns the ids present in both lists, sorted and without duplicates.
// The rate provider and the currency registry disagree on what a valid currency is;
// only currencies both agree on are offered.
func Intersect(datasetIDs, registryIDs []string) []string {
	known := make(map[string]struct{}, len(registryIDs))
	for _, id := range registryIDs {
		known[id] = struct{}{}
	}

	common := map[string]struct{}{}
	for _, id := range datasetIDs {
		if _, ok := known[id]; ok {
			common[id] = struct{}{}
		}
	}

	result := make([]string, 0, len(common))
	for id := range common {
		result = append(result, id)
	}
	sort.Strings(result)
	return result
}
