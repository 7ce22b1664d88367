package settlement

import "fmt"

// Withholding is the statutory deduction row applied to the gross amount.
type Withholding struct {
	TDSPercent        float64 `json:"tds_percent"`
	TCSPercent        float64 `json:"tcs_percent"`
	AdditionalPercent float64 `json:"additional_percent"`
}

// RateTable holds every percentage the calculator uses. Values are
// percentages, so 18 means 18%.
type RateTable struct {
	ConvenienceFeePercent       float64 `json:"convenience_fee_percent"`
	GSTPercent                  float64 `json:"gst_percent"`
	VendorConvenienceFeePercent float64 `json:"vendor_convenience_fee_percent"`
	CommissionPercent           float64 `json:"commission_percent"`
	// CommissionTDSPercent is withheld on the platform commission (194H).
	CommissionTDSPercent float64 `json:"commission_tds_percent"`

	Registered   Withholding `json:"registered"`
	Unregistered Withholding `json:"unregistered"`
}

// DefaultRateTable returns the rates used when nothing is configured.
//
// Registered vendors: 1% TDS under 194-O and 1% TCS under section 52 of
// the CGST Act. Unregistered vendors: 1% TDS, no TCS since there is no
// GSTIN to credit it against.
func DefaultRateTable() RateTable {
	return RateTable{
		ConvenienceFeePercent:       5,
		GSTPercent:                  18,
		VendorConvenienceFeePercent: 0,
		CommissionPercent:           10,
		CommissionTDSPercent:        2,
		Registered: Withholding{
			TDSPercent: 1,
			TCSPercent: 1,
		},
		Unregistered: Withholding{
			TDSPercent: 1,
		},
	}
}

// WithholdingFor selects the deduction row for a vendor.
func (r RateTable) WithholdingFor(gstRegistered bool) Withholding {
	if gstRegistered {
		return r.Registered
	}
	return r.Unregistered
}

// Validate rejects negative or out of range percentages. It is meant for
// configuration loading; Calculate itself never fails.
func (r RateTable) Validate() error {
	fields := map[string]float64{
		"convenience_fee_percent":         r.ConvenienceFeePercent,
		"gst_percent":                     r.GSTPercent,
		"vendor_convenience_fee_percent":  r.VendorConvenienceFeePercent,
		"commission_percent":              r.CommissionPercent,
		"commission_tds_percent":          r.CommissionTDSPercent,
		"registered.tds_percent":          r.Registered.TDSPercent,
		"registered.tcs_percent":          r.Registered.TCSPercent,
		"registered.additional_percent":   r.Registered.AdditionalPercent,
		"unregistered.tds_percent":        r.Unregistered.TDSPercent,
		"unregistered.tcs_percent":        r.Unregistered.TCSPercent,
		"unregistered.additional_percent": r.Unregistered.AdditionalPercent,
	}
	for name, v := range fields {
		if v < 0 || v > 100 {
			return fmt.Errorf("settlement rate %s out of range: %v", name, v)
		}
	}
	return nil
}
