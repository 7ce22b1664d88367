package settlement

import "math"

// Breakdown is every line of the payment waterfall for one booking.
type Breakdown struct {
	GrossAmount    float64 `json:"gross_amount"`
	ConvenienceFee float64 `json:"convenience_fee"`
	CGST           float64 `json:"cgst"`
	SGST           float64 `json:"sgst"`
	TotalGST       float64 `json:"total_gst"`
	// AmountWithTax is what the buyer pays.
	AmountWithTax float64 `json:"amount_with_tax"`

	TDS           float64 `json:"tds"`
	TCS           float64 `json:"tcs"`
	AmountPayable float64 `json:"amount_payable"`

	Commission      float64 `json:"commission"`
	GSTOnCommission float64 `json:"gst_on_commission"`
	TDSOnCommission float64 `json:"tds_on_commission"`
	NetCommission   float64 `json:"net_commission"`

	VendorConvenienceFee  float64 `json:"vendor_convenience_fee"`
	AdditionalWithholding float64 `json:"additional_withholding"`
	NetPayable            float64 `json:"net_payable"`
}

// Calculate computes the waterfall at full precision. Round only when
// presenting or persisting, via Breakdown.Rounded.
func Calculate(gross float64, vendorGSTRegistered bool, rates RateTable) Breakdown {
	w := rates.WithholdingFor(vendorGSTRegistered)

	b := Breakdown{GrossAmount: gross}

	// GST is levied on the platform fee, not on the booking amount
	b.ConvenienceFee = percentOf(gross, rates.ConvenienceFeePercent)
	b.CGST = percentOf(b.ConvenienceFee, rates.GSTPercent/2)
	b.SGST = percentOf(b.ConvenienceFee, rates.GSTPercent/2)
	b.TotalGST = b.CGST + b.SGST
	b.AmountWithTax = gross + b.ConvenienceFee + b.TotalGST

	b.TDS = percentOf(gross, w.TDSPercent)
	b.TCS = percentOf(gross, w.TCSPercent)
	b.AmountPayable = gross - b.TDS - b.TCS

	b.Commission = percentOf(b.AmountPayable, rates.CommissionPercent)
	b.GSTOnCommission = percentOf(b.Commission, rates.GSTPercent)
	b.TDSOnCommission = percentOf(b.Commission, rates.CommissionTDSPercent)
	b.NetCommission = b.Commission + b.GSTOnCommission - b.TDSOnCommission

	b.VendorConvenienceFee = percentOf(b.AmountPayable, rates.VendorConvenienceFeePercent)
	b.AdditionalWithholding = percentOf(b.AmountPayable, w.AdditionalPercent)
	b.NetPayable = b.AmountPayable - b.NetCommission - b.VendorConvenienceFee - b.AdditionalWithholding

	return b
}

// Rounded returns a copy with every line rounded to the minor unit.
func (b Breakdown) Rounded() Breakdown {
	return Breakdown{
		GrossAmount:           Round(b.GrossAmount),
		ConvenienceFee:        Round(b.ConvenienceFee),
		CGST:                  Round(b.CGST),
		SGST:                  Round(b.SGST),
		TotalGST:              Round(b.TotalGST),
		AmountWithTax:         Round(b.AmountWithTax),
		TDS:                   Round(b.TDS),
		TCS:                   Round(b.TCS),
		AmountPayable:         Round(b.AmountPayable),
		Commission:            Round(b.Commission),
		GSTOnCommission:       Round(b.GSTOnCommission),
		TDSOnCommission:       Round(b.TDSOnCommission),
		NetCommission:         Round(b.NetCommission),
		VendorConvenienceFee:  Round(b.VendorConvenienceFee),
		AdditionalWithholding: Round(b.AdditionalWithholding),
		NetPayable:            Round(b.NetPayable),
	}
}

// Round rounds half away from zero to two decimals.
func Round(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// MinorUnits converts a major-unit amount to paise for the gateway.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func percentOf(amount, percent float64) float64 {
	return amount * percent / 100
}
