package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/autonomo-api/internal/domain/entity"
)

// El IVA soportado guardado es round(base × tipo / 100, 2) y el total es base + IVA.
func TestExpense_DeriveAmounts(t *testing.T) {
	cases := []struct {
		base string
		vat  entity.VATType
		want string
	}{
		{"100.00", entity.VATGeneral, "21.00"},
		{"33.33", entity.VATGeneral, "7.00"},
		{"19.99", entity.VATReduced, "2.00"},
		{"12.34", entity.VATSuperReduced, "0.49"},
		{"500.00", entity.VATExempt, "0.00"},
	}
	for _, tc := range cases {
		e := entity.Expense{TaxableBase: d(tc.base), VATType: tc.vat}
		e.DeriveAmounts()
		assert.Equal(t, tc.want, e.InputVAT.StringFixed(2), "base %s al %d%%", tc.base, tc.vat)
		assert.True(t, e.Total().Equal(d(tc.base).Add(e.InputVAT)))
	}
}

func TestVATType_IsValid(t *testing.T) {
	assert.True(t, entity.VATType(21).IsValid())
	assert.False(t, entity.VATType(7).IsValid())
	assert.True(t, entity.ExpenseSoftware.IsValid())
	assert.False(t, entity.ExpenseCategory("ocio").IsValid())
}

func TestIncome_RevenueCuentaComoEnviado(t *testing.T) {
	i := entity.Income{TaxableBase: d("1000"), VATType: entity.VATGeneral, WithholdingRate: entity.DefaultWithholdingRate}
	i.DeriveAmounts()

	r := i.Revenue()
	assert.Equal(t, "210.00", r.OutputVAT.StringFixed(2))
	assert.Equal(t, "150.00", r.Withholding.StringFixed(2))
	assert.Equal(t, 21, r.VATRate)
	assert.True(t, r.Status.CountsTowardTax())
}
