package domain

import "strings"

// InterpolationFlags is the flag set exchanged with the interpolation
// component describing which axes were interpolated. The combination is
// opaque to merging; only its presence matters here.
type InterpolationFlags uint64

const (
	InterpolateTemporal   InterpolationFlags = 1 << 17
	InterpolateSpatial    InterpolationFlags = 1 << 18
	InterpolatePrecip     InterpolationFlags = 1 << 21
	InterpolateWind       InterpolationFlags = 1 << 22
	InterpolateHistory    InterpolationFlags = 1 << 23
	InterpolateCalcFWI    InterpolationFlags = 1 << 24
	InterpolateWindVector InterpolationFlags = 1 << 27
	InterpolateTempRH     InterpolationFlags = 1 << 29

	interpolationAxes = InterpolateTemporal | InterpolateSpatial | InterpolatePrecip |
		InterpolateWind | InterpolateHistory | InterpolateCalcFWI |
		InterpolateWindVector | InterpolateTempRH
)

var interpolationNames = []struct {
	flag InterpolationFlags
	name string
}{
	{InterpolateTemporal, "temporal"},
	{InterpolateSpatial, "spatial"},
	{InterpolatePrecip, "precip"},
	{InterpolateWind, "wind"},
	{InterpolateHistory, "history"},
	{InterpolateCalcFWI, "calcfwi"},
	{InterpolateWindVector, "wind_vector"},
	{InterpolateTempRH, "temp_rh"},
}

// Any reports whether at least one interpolation axis is set.
func (f InterpolationFlags) Any() bool { return f&interpolationAxes != 0 }

func (f InterpolationFlags) String() string {
	var names []string
	for _, n := range interpolationNames {
		if f&n.flag != 0 {
			names = append(names, n.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// MarkInterpolated sets the INTERPOLATED modifier on w when flags carries any
// interpolation axis.
func MarkInterpolated(w *WeatherObservation, flags InterpolationFlags) {
	if flags.Any() {
		w.SetSpecified(WeatherInterpolated)
	}
}
