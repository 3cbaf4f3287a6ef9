package domain

import "strings"

// WeatherBits is the presence mask of a WeatherObservation.
type WeatherBits uint32

// Weather field and modifier bits. Data fields occupy the low byte; the
// modifiers describe how the present fields were obtained.
const (
	WeatherTemperature   WeatherBits = 0x00000001
	WeatherDewPoint      WeatherBits = 0x00000002
	WeatherRH            WeatherBits = 0x00000004
	WeatherPrecipitation WeatherBits = 0x00000008
	WeatherWindSpeed     WeatherBits = 0x00000010
	WeatherWindDirection WeatherBits = 0x00000020

	WeatherAll = WeatherTemperature | WeatherDewPoint | WeatherRH |
		WeatherPrecipitation | WeatherWindSpeed | WeatherWindDirection

	WeatherInterpolated WeatherBits = 0x00000040
	WeatherEnsemble     WeatherBits = 0x00000080
	WeatherInvalidData  WeatherBits = 0x00000100

	weatherModifiers = WeatherInterpolated | WeatherEnsemble | WeatherInvalidData
)

// HourlyBits is the presence mask of an HourlyIndexRecord.
type HourlyBits uint32

const (
	HourlyFFMC HourlyBits = 0x00000100
	HourlyISI  HourlyBits = 0x00000200
	HourlyFWI  HourlyBits = 0x00000400

	HourlyAll = HourlyFFMC | HourlyISI | HourlyFWI
)

// DailyBits is the presence mask of a DailyIndexRecord.
type DailyBits uint32

const (
	DailyFFMC DailyBits = 0x00001000
	DailyDMC  DailyBits = 0x00002000
	DailyDC   DailyBits = 0x00004000
	DailyBUI  DailyBits = 0x00008000
	DailyISI  DailyBits = 0x00010000
	DailyFWI  DailyBits = 0x00020000

	DailyAll = DailyFFMC | DailyDMC | DailyDC | DailyBUI | DailyISI | DailyFWI
)

// mask constrains the generic helpers to the three presence mask types.
type mask interface {
	~uint32
}

// namedBit pairs a bit with its wire name. Field tables are ordered by value
// index, so fields[i] owns values[i] of the record.
type namedBit[M mask] struct {
	bit  M
	name string
}

var (
	weatherFields = []namedBit[WeatherBits]{
		{WeatherTemperature, "temperature"},
		{WeatherDewPoint, "dew_point"},
		{WeatherRH, "rh"},
		{WeatherPrecipitation, "precipitation"},
		{WeatherWindSpeed, "wind_speed"},
		{WeatherWindDirection, "wind_direction"},
	}
	weatherModifierNames = []namedBit[WeatherBits]{
		{WeatherInterpolated, "interpolated"},
		{WeatherEnsemble, "ensemble"},
		{WeatherInvalidData, "invalid_data"},
	}
	hourlyFields = []namedBit[HourlyBits]{
		{HourlyFFMC, "ffmc"},
		{HourlyISI, "isi"},
		{HourlyFWI, "fwi"},
	}
	dailyFields = []namedBit[DailyBits]{
		{DailyFFMC, "ffmc"},
		{DailyDMC, "dmc"},
		{DailyDC, "dc"},
		{DailyBUI, "bui"},
		{DailyISI, "isi"},
		{DailyFWI, "fwi"},
	}
)

func (b WeatherBits) String() string {
	return maskString(b, weatherFields, weatherModifierNames)
}

func (b HourlyBits) String() string { return maskString(b, hourlyFields) }

func (b DailyBits) String() string { return maskString(b, dailyFields) }

// maskString joins the names of the set bits with "|". Bits without a name
// are ignored; an empty mask renders as "none".
func maskString[M mask](m M, tables ...[]namedBit[M]) string {
	var names []string
	for _, table := range tables {
		for _, f := range table {
			if m&f.bit != 0 {
				names = append(names, f.name)
			}
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// mergeFields applies the overlay-wins rule to each field in the table and
// returns the resulting presence mask. Unspecified fields are left at zero in out.
func mergeFields[M mask](fields []namedBit[M], base, overlay, out []float64, baseMask, overlayMask M) M {
	var specified M
	for i, f := range fields {
		switch {
		case overlayMask&f.bit != 0:
			out[i] = overlay[i]
			specified |= f.bit
		case baseMask&f.bit != 0:
			out[i] = base[i]
			specified |= f.bit
		}
	}
	return specified
}

// equalFields reports whether two records carry the same mask and the same
// values for every specified field. Storage behind unset bits is ignored.
func equalFields[M mask](fields []namedBit[M], a, b []float64, am, bm M) bool {
	if am != bm {
		return false
	}
	for i, f := range fields {
		if am&f.bit != 0 && a[i] != b[i] {
			return false
		}
	}
	return true
}

// specifiedValues returns the specified fields keyed by wire name.
func specifiedValues[M mask](fields []namedBit[M], values []float64, m M) map[string]float64 {
	out := make(map[string]float64, len(fields))
	for i, f := range fields {
		if m&f.bit != 0 {
			out[f.name] = values[i]
		}
	}
	return out
}
