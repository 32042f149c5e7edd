package entitlement

import (
	"strings"

	"github.com/tendant/simple-provision/pkg/errors"
)

// AccessLevel is an integer ordinal controlling feature visibility.
// Levels 1-2 are consumer tiers reachable by purchase; 3-4 are staff/admin
// tiers reachable only by manual provisioning.
type AccessLevel int

const (
	AccessLevelBasic AccessLevel = 1
	AccessLevelPlus  AccessLevel = 2
	AccessLevelStaff AccessLevel = 3
	AccessLevelAdmin AccessLevel = 4
)

// Entitlement is the grant a purchased product code resolves to.
type Entitlement struct {
	AccessLevel AccessLevel
	Products    []string
}

// Mapper resolves product codes to entitlements from an immutable table
// built at construction time.
type Mapper struct {
	table map[string]Entitlement
}

// DefaultTable returns the live product table.
func DefaultTable() map[string]Entitlement {
	return map[string]Entitlement{
		"STFOUR": {AccessLevel: AccessLevelBasic, Products: []string{"STFOUR"}},
		"GLBNS":  {AccessLevel: AccessLevelPlus, Products: []string{"STFOUR", "GLBNS"}},
	}
}

// NewMapper creates a Mapper with the default product table.
func NewMapper() *Mapper {
	return NewMapperWithTable(DefaultTable())
}

// NewMapperWithTable creates a Mapper with a custom product table.
// The table is copied so later mutation of the argument has no effect.
func NewMapperWithTable(table map[string]Entitlement) *Mapper {
	copied := make(map[string]Entitlement, len(table))
	for code, ent := range table {
		products := make([]string, len(ent.Products))
		copy(products, ent.Products)
		copied[strings.ToUpper(code)] = Entitlement{
			AccessLevel: ent.AccessLevel,
			Products:    products,
		}
	}
	return &Mapper{table: copied}
}

// Resolve maps a product code to its entitlement. The code is
// case-insensitive. Unknown codes are rejected, never defaulted.
//
// A resolved access level at or above AccessLevelAdmin means the table is
// misconfigured; Resolve fails closed with an internal error rather than
// granting an administrative tier through the purchase path.
func (m *Mapper) Resolve(product string) (Entitlement, error) {
	code := strings.ToUpper(strings.TrimSpace(product))
	if code == "" {
		return Entitlement{}, errors.New(errors.ErrCodeInvalidProduct, "invalid product: product code is required")
	}

	ent, ok := m.table[code]
	if !ok {
		return Entitlement{}, errors.Newf(errors.ErrCodeInvalidProduct, "invalid product: %s", code)
	}

	if ent.AccessLevel >= AccessLevelAdmin {
		return Entitlement{}, errors.Newf(errors.ErrCodeEntitlementEscalation,
			"entitlement table resolves %s to administrative level %d", code, ent.AccessLevel)
	}

	products := make([]string, len(ent.Products))
	copy(products, ent.Products)
	return Entitlement{AccessLevel: ent.AccessLevel, Products: products}, nil
}
