package catalog

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"go-currency-converter/domain"
)

//go:embed data/currencies.json
var bundled embed.FS

// BundledPath location of the dataset inside the embedded filesystem
const BundledPath = "data/currencies.json"

// Catalog the currencies that can be offered for conversion.
// A Catalog is read-only once loaded and safe for concurrent use.
type Catalog struct {
	// entries sorted by display name
	entries []domain.Entry

	// names display names in the same order as entries
	names []string

	byName map[string]domain.Currency
	byCode map[domain.Currency]domain.Entry

	// skipped dataset codes dropped because the registry does not know them
	skipped []domain.Currency
}

// LoadBundled loads the dataset shipped with the binary, filtered by the ISO 4217 registry
func LoadBundled() (*Catalog, error) {
	data, err := bundled.ReadFile(BundledPath)
	if err != nil {
		return nil, fmt.Errorf("%w: reading bundled dataset: %v", domain.ErrDataset, err)
	}
	return Load(data, ISORegistry{})
}

// LoadFile loads a dataset from disk, filtered by the ISO 4217 registry
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", domain.ErrDataset, path, err)
	}
	return Load(data, ISORegistry{})
}

// Load builds a Catalog from a dataset of the form {"USD": {"id": "USD", "currencyName": "..."}}.
// Only currencies present in both the dataset and the registry are kept.
func Load(data []byte, registry Registry) (*Catalog, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty dataset", domain.ErrDataset)
	}

	var listings map[string]domain.Listing
	if err := json.Unmarshal(data, &listings); err != nil {
		return nil, fmt.Errorf("%w: decoding json: %v", domain.ErrDataset, err)
	}
	if len(listings) == 0 {
		return nil, fmt.Errorf("%w: no currencies", domain.ErrDataset)
	}

	ids := make([]string, 0, len(listings))
	for key, l := range listings {
		if l.ID == "" || l.Name == "" {
			return nil, fmt.Errorf("%w: incomplete entry [%v]", domain.ErrDataset, key)
		}
		if l.ID != key {
			return nil, fmt.Errorf("%w: entry [%v] has id %v", domain.ErrDataset, key, l.ID)
		}
		ids = append(ids, key)
	}

	kept := Intersect(ids, registry.Codes())
	if len(kept) == 0 {
		return nil, fmt.Errorf("%w: no currency is known to the registry", domain.ErrDataset)
	}

	c := &Catalog{
		entries: make([]domain.Entry, 0, len(kept)),
		byName:  make(map[string]domain.Currency, len(kept)),
		byCode:  make(map[domain.Currency]domain.Entry, len(kept)),
	}

	for _, id := range kept {
		entry := domain.Entry{Code: domain.Currency(id), Name: listings[id].Name}
		if other, ok := c.byName[entry.Name]; ok {
			return nil, fmt.Errorf("%w: name %q used by %v and %v", domain.ErrDataset, entry.Name, other, entry.Code)
		}
		c.byName[entry.Name] = entry.Code
		c.byCode[entry.Code] = entry
		c.entries = append(c.entries, entry)
	}

	sort.Slice(c.entries, func(i, j int) bool {
		return c.entries[i].Name < c.entries[j].Name
	})
	c.names = make([]string, len(c.entries))
	for i, e := range c.entries {
		c.names[i] = e.Name
	}

	for _, id := range ids {
		if _, ok := c.byCode[domain.Currency(id)]; !ok {
			c.skipped = append(c.skipped, domain.Currency(id))
		}
	}
	sort.Slice(c.skipped, func(i, j int) bool { return c.skipped[i] < c.skipped[j] })

	return c, nil
}

// Names the display names of all currencies, sorted alphabetically.
// The returned slice must not be modified.
func (c *Catalog) Names() []string {
	return c.names
}

// Entries all currencies, sorted by display name.
// The returned slice must not be modified.
func (c *Catalog) Entries() []domain.Entry {
	return c.entries
}

// CodeForName returns the currency code for an exact display name
func (c *Catalog) CodeForName(name string) (domain.Currency, error) {
	code, ok := c.byName[name]
	if !ok {
		return "", fmt.Errorf("currency name %q: %w", name, domain.ErrNotFound)
	}
	return code, nil
}

// Lookup returns the entry for a currency code
func (c *Catalog) Lookup(code domain.Currency) (domain.Entry, bool) {
	e, ok := c.byCode[code]
	return e, ok
}

// Resolve accepts either a display name or a currency code
func (c *Catalog) Resolve(nameOrCode string) (domain.Currency, error) {
	if e, ok := c.byCode[domain.Currency(nameOrCode)]; ok {
		return e.Code, nil
	}
	return c.CodeForName(nameOrCode)
}

// Len number of currencies in the catalog
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Skipped dataset codes left out because the registry does not recognise them
func (c *Catalog) Skipped() []domain.Currency {
	return c.skipped
}
