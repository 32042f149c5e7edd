package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-provision/pkg/errors"
)

func TestResolve(t *testing.T) {
	mapper := NewMapper()

	tests := []struct {
		name         string
		product      string
		wantLevel    AccessLevel
		wantProducts []string
		wantErrCode  errors.ErrorCode
	}{
		{
			name:         "stfour uppercase",
			product:      "STFOUR",
			wantLevel:    AccessLevelBasic,
			wantProducts: []string{"STFOUR"},
		},
		{
			name:         "stfour lowercase is normalized",
			product:      "stfour",
			wantLevel:    AccessLevelBasic,
			wantProducts: []string{"STFOUR"},
		},
		{
			name:         "glbns grants both products",
			product:      "glbns",
			wantLevel:    AccessLevelPlus,
			wantProducts: []string{"STFOUR", "GLBNS"},
		},
		{
			name:        "unknown code is rejected",
			product:     "XYZ",
			wantErrCode: errors.ErrCodeInvalidProduct,
		},
		{
			name:        "admin is not a product",
			product:     "ADMIN",
			wantErrCode: errors.ErrCodeInvalidProduct,
		},
		{
			name:        "empty product",
			product:     "",
			wantErrCode: errors.ErrCodeInvalidProduct,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ent, err := mapper.Resolve(tt.product)
			if tt.wantErrCode != "" {
				require.Error(t, err)
				assert.True(t, errors.IsCode(err, tt.wantErrCode), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLevel, ent.AccessLevel)
			assert.Equal(t, tt.wantProducts, ent.Products)
		})
	}
}

func TestResolveFailsClosedOnAdminLevel(t *testing.T) {
	// A corrupted or extended table must never grant an admin tier through
	// the purchase path.
	mapper := NewMapperWithTable(map[string]Entitlement{
		"STFOUR":   {AccessLevel: AccessLevelBasic, Products: []string{"STFOUR"}},
		"BACKDOOR": {AccessLevel: AccessLevelAdmin, Products: []string{"STFOUR"}},
	})

	_, err := mapper.Resolve("BACKDOOR")
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrCodeEntitlementEscalation))

	// The sane entries keep working.
	ent, err := mapper.Resolve("STFOUR")
	require.NoError(t, err)
	assert.Equal(t, AccessLevelBasic, ent.AccessLevel)
}

func TestMapperCopiesTable(t *testing.T) {
	table := map[string]Entitlement{
		"STFOUR": {AccessLevel: AccessLevelBasic, Products: []string{"STFOUR"}},
	}
	mapper := NewMapperWithTable(table)

	// Mutating the source table after construction has no effect.
	table["STFOUR"] = Entitlement{AccessLevel: AccessLevelAdmin, Products: []string{"STFOUR"}}

	ent, err := mapper.Resolve("STFOUR")
	require.NoError(t, err)
	assert.Equal(t, AccessLevelBasic, ent.AccessLevel)
}
