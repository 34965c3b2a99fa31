// Package supplier resolves per-supplier ordering parameters (lead time,
// safety stock, MOQ) from a JSON mapping with a mandatory "default" entry.
// The table is loaded once per run and never mutated during calculation.
package supplier

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/covatech/replengo/internal/domain"
)

// DefaultKey is the mapping entry used for any supplier without an explicit
// override.
const DefaultKey = "default"

// Fallback parameters used when no configuration file exists at all.
var fallbackDefault = domain.SupplierParams{
	LeadTimeDays:    30,
	SafetyStockDays: 7,
	MOQ:             1,
}

// Table is a read-only lookup of supplier name -> parameters.
type Table struct {
	params   map[string]domain.SupplierParams
	fallback domain.SupplierParams
}

// Load reads the supplier parameter mapping from a JSON file shaped like
//
//	{"default": {"lead_time_days": 30, "safety_stock_days": 7, "moq": 1},
//	 "ACME":    {"lead_time_days": 45, "safety_stock_days": 10, "moq": 5}}
//
// A missing file yields a table holding only the built-in default. A present
// but invalid file is an error: running a batch against a half-read
// configuration would silently change every quantity.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(nil)
		}
		return nil, fmt.Errorf("read supplier config %s: %w", path, err)
	}

	var raw map[string]domain.SupplierParams
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse supplier config %s: %w", path, err)
	}

	return New(raw)
}

// New builds a Table from an in-memory mapping, validating every entry.
func New(raw map[string]domain.SupplierParams) (*Table, error) {
	t := &Table{
		params:   make(map[string]domain.SupplierParams, len(raw)),
		fallback: fallbackDefault,
	}

	for name, p := range raw {
		if err := validate(name, p); err != nil {
			return nil, err
		}
		if name == DefaultKey {
			t.fallback = p
			continue
		}
		t.params[name] = p
	}

	return t, nil
}

func validate(name string, p domain.SupplierParams) error {
	if p.LeadTimeDays < 1 {
		return fmt.Errorf("supplier %q: lead_time_days must be >= 1, got %d", name, p.LeadTimeDays)
	}
	if p.SafetyStockDays < 0 {
		return fmt.Errorf("supplier %q: safety_stock_days must be >= 0, got %v", name, p.SafetyStockDays)
	}
	if p.MOQ < 1 {
		return fmt.Errorf("supplier %q: moq must be >= 1, got %v", name, p.MOQ)
	}
	return nil
}

// Resolve returns the parameters for a supplier, falling back to the default
// entry when no override exists. It never returns a zero value.
func (t *Table) Resolve(supplier string) domain.SupplierParams {
	if p, ok := t.params[supplier]; ok {
		return p
	}
	return t.fallback
}

// Default returns the fallback entry.
func (t *Table) Default() domain.SupplierParams {
	return t.fallback
}

// Len returns the number of explicit supplier overrides.
func (t *Table) Len() int {
	return len(t.params)
}
