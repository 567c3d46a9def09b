package models

// PlausibleRange is the screening window for one reading. Values outside it
// are treated as recognition noise, not as clinical findings.
type PlausibleRange struct {
	Min float64
	Max float64
}

// plausibleRanges mirrors the screening windows the document parsers apply.
// Fields absent here (the advanced clinical findings) are screened by the
// classifier against the model's declared domains instead.
var plausibleRanges = map[FieldName]PlausibleRange{
	FieldAge:         {Min: 1, Max: 120},
	FieldSystolicBP:  {Min: 70, Max: 250},
	FieldDiastolicBP: {Min: 40, Max: 150},
	FieldCholesterol: {Min: 100, Max: 400},
	FieldHeartRate:   {Min: 40, Max: 200},
	FieldGlucose:     {Min: 50, Max: 300},
	FieldHDL:         {Min: 20, Max: 100},
	FieldLDL:         {Min: 50, Max: 300},
}

func PlausibleRangeFor(name FieldName) (PlausibleRange, bool) {
	r, ok := plausibleRanges[name]
	return r, ok
}

// WithinPlausibleRange reports whether value is acceptable for the named
// reading. Fields without a screening window always pass.
func WithinPlausibleRange(name FieldName, value float64) bool {
	r, ok := plausibleRanges[name]
	if !ok {
		return true
	}
	return value >= r.Min && value <= r.Max
}
