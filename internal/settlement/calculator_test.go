package settlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func TestCalculate_BuyerSideScenario(t *testing.T) {
	b := Calculate(1000, true, DefaultRateTable())

	assert.InDelta(t, 50, b.ConvenienceFee, tolerance)
	assert.InDelta(t, 4.5, b.CGST, tolerance)
	assert.InDelta(t, 4.5, b.SGST, tolerance)
	assert.InDelta(t, 9, b.TotalGST, tolerance)
	assert.InDelta(t, 1059, b.AmountWithTax, tolerance)
}

func TestCalculate_VendorSideRegistered(t *testing.T) {
	b := Calculate(1000, true, DefaultRateTable())

	assert.InDelta(t, 10, b.TDS, tolerance)
	assert.InDelta(t, 10, b.TCS, tolerance)
	assert.InDelta(t, 980, b.AmountPayable, tolerance)
	assert.InDelta(t, 98, b.Commission, tolerance)
	assert.InDelta(t, 17.64, b.GSTOnCommission, tolerance)
	assert.InDelta(t, 1.96, b.TDSOnCommission, tolerance)
	assert.InDelta(t, 113.68, b.NetCommission, tolerance)
	assert.InDelta(t, 866.32, b.NetPayable, tolerance)
}

func TestCalculate_UnregisteredUsesItsOwnRow(t *testing.T) {
	rates := DefaultRateTable()

	registered := Calculate(1000, true, rates)
	unregistered := Calculate(1000, false, rates)

	assert.InDelta(t, 0, unregistered.TCS, tolerance)
	assert.InDelta(t, 990, unregistered.AmountPayable, tolerance)
	assert.Greater(t, unregistered.NetPayable, registered.NetPayable)
	// buyer side does not depend on the vendor
	assert.Equal(t, registered.AmountWithTax, unregistered.AmountWithTax)
}

func TestCalculate_AdditionalWithholdingAndVendorFee(t *testing.T) {
	rates := DefaultRateTable()
	rates.VendorConvenienceFeePercent = 2
	rates.Unregistered.AdditionalPercent = 5

	b := Calculate(1000, false, rates)

	assert.InDelta(t, 19.8, b.VendorConvenienceFee, tolerance)
	assert.InDelta(t, 49.5, b.AdditionalWithholding, tolerance)
	assert.InDelta(t, b.AmountPayable-b.NetCommission-19.8-49.5, b.NetPayable, tolerance)
}

func TestCalculate_RoundTripIdentity(t *testing.T) {
	rates := DefaultRateTable()
	for _, gross := range []float64{0, 0.01, 1, 99.99, 333.33, 1000, 12345.67, 1e7} {
		b := Calculate(gross, gross > 100, rates)
		assert.InDelta(t, 0, b.AmountWithTax-b.GrossAmount-b.ConvenienceFee-b.TotalGST, 1e-6, "gross %v", gross)
	}
}

func TestCalculate_ZeroRatesPassThrough(t *testing.T) {
	b := Calculate(750, true, RateTable{})

	assert.Equal(t, Breakdown{GrossAmount: 750, AmountWithTax: 750, AmountPayable: 750, NetPayable: 750}, b)
}

func TestBreakdownRounded(t *testing.T) {
	b := Calculate(123.4, true, DefaultRateTable()).Rounded()

	assert.Equal(t, 6.17, b.ConvenienceFee)
	assert.Equal(t, 0.56, b.CGST)
	assert.Equal(t, 1.11, b.TotalGST)
	assert.Equal(t, 130.68, b.AmountWithTax)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(105900), MinorUnits(1059))
	assert.Equal(t, int64(35299), MinorUnits(352.9899))
	assert.Equal(t, int64(1), MinorUnits(0.01))
}

func TestRateTableValidate(t *testing.T) {
	require.NoError(t, DefaultRateTable().Validate())

	bad := DefaultRateTable()
	bad.Registered.TCSPercent = -1
	assert.Error(t, bad.Validate())
}
