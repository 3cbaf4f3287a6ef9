package domain

import "encoding/json"

const (
	wxTemperature = iota
	wxDewPoint
	wxRH
	wxPrecipitation
	wxWindSpeed
	wxWindDirection
	weatherFieldCount
)

// WeatherObservation is a point-in-time weather reading. A field holds data
// only when its bit is set; the zero value has nothing specified.
//
// The setters are builder methods for the single producer populating the
// record. Once handed on by value the record is an immutable snapshot.
type WeatherObservation struct {
	values    [weatherFieldCount]float64
	specified WeatherBits
}

func (w WeatherObservation) Kind() Kind { return KindWeather }

// Specified returns the raw presence mask, modifier bits included.
func (w WeatherObservation) Specified() WeatherBits { return w.specified }

// IsSpecified returns the literal AND of the mask with bit.
func (w WeatherObservation) IsSpecified(bit WeatherBits) bool { return w.specified&bit != 0 }

// SetSpecified sets bit without touching field storage.
func (w *WeatherObservation) SetSpecified(bit WeatherBits) { w.specified |= bit }

// ClearSpecified clears bit without touching field storage.
func (w *WeatherObservation) ClearSpecified(bit WeatherBits) { w.specified &^= bit }

// AllSpecified reports whether every data field is present. Modifier bits are
// not considered.
func (w WeatherObservation) AllSpecified() bool { return w.specified&WeatherAll == WeatherAll }

func (w WeatherObservation) Complete() bool { return w.AllSpecified() }

func (w WeatherObservation) Temperature() (float64, bool) { return w.field(wxTemperature) }
func (w WeatherObservation) DewPoint() (float64, bool) { return w.field(wxDewPoint) }
func (w WeatherObservation) RH() (float64, bool) { return w.field(wxRH) }
func (w WeatherObservation) Precipitation() (float64, bool) { return w.field(wxPrecipitation) }
func (w WeatherObservation) WindSpeed() (float64, bool) { return w.field(wxWindSpeed) }
func (w WeatherObservation) WindDirection() (float64, bool) { return w.field(wxWindDirection) }

func (w *WeatherObservation) SetTemperature(v float64) { w.set(wxTemperature, v) }
func (w *WeatherObservation) SetDewPoint(v float64) { w.set(wxDewPoint, v) }
func (w *WeatherObservation) SetRH(v float64) { w.set(wxRH, v) }
func (w *WeatherObservation) SetPrecipitation(v float64) { w.set(wxPrecipitation, v) }
func (w *WeatherObservation) SetWindSpeed(v float64) { w.set(wxWindSpeed, v) }
func (w *WeatherObservation) SetWindDirection(v float64) { w.set(wxWindDirection, v) }

// Interpolated reports whether the present fields were derived by interpolation.
func (w WeatherObservation) Interpolated() bool { return w.IsSpecified(WeatherInterpolated) }

// Ensemble reports whether the present fields were derived by ensemble averaging.
func (w WeatherObservation) Ensemble() bool { return w.IsSpecified(WeatherEnsemble) }

// InvalidData reports whether the record is flagged unreliable as a whole.
// The flag is advisory; consumers decide whether to reject the record.
func (w WeatherObservation) InvalidData() bool { return w.IsSpecified(WeatherInvalidData) }

// Merge combines w with overlay field by field: overlay's specified values win,
// then w's, otherwise the field stays unspecified. Modifier bits are carried
// when set on either side.
func (w WeatherObservation) Merge(overlay WeatherObservation) WeatherObservation {
	var out WeatherObservation
	out.specified = mergeFields(weatherFields, w.values[:], overlay.values[:], out.values[:], w.specified, overlay.specified)
	out.specified |= (w.specified | overlay.specified) & weatherModifiers
	return out
}

// Equal compares the masks and the values of specified fields.
func (w WeatherObservation) Equal(other WeatherObservation) bool {
	return equalFields(weatherFields, w.values[:], other.values[:], w.specified, other.specified)
}

// Values returns the specified data fields keyed by wire name.
func (w WeatherObservation) Values() map[string]float64 {
	return specifiedValues(weatherFields, w.values[:], w.specified)
}

func (w WeatherObservation) String() string { return "weather{" + w.specified.String() + "}" }

func (w WeatherObservation) field(i int) (float64, bool) {
	if w.specified&weatherFields[i].bit == 0 {
		return 0, false
	}
	return w.values[i], true
}

func (w *WeatherObservation) set(i int, v float64) {
	w.values[i] = v
	w.specified |= weatherFields[i].bit
}

type weatherJSON struct {
	Temperature   *float64 `json:"temperature,omitempty"`
	DewPoint      *float64 `json:"dew_point,omitempty"`
	RH            *float64 `json:"rh,omitempty"`
	Precipitation *float64 `json:"precipitation,omitempty"`
	WindSpeed     *float64 `json:"wind_speed,omitempty"`
	WindDirection *float64 `json:"wind_direction,omitempty"`
	Interpolated  bool     `json:"interpolated,omitempty"`
	Ensemble      bool     `json:"ensemble,omitempty"`
	InvalidData   bool     `json:"invalid_data,omitempty"`
}

func (j *weatherJSON) slots() []**float64 {
	return []**float64{&j.Temperature, &j.DewPoint, &j.RH, &j.Precipitation, &j.WindSpeed, &j.WindDirection}
}

// MarshalJSON emits only the specified fields.
func (w WeatherObservation) MarshalJSON() ([]byte, error) {
	var j weatherJSON
	encodeFields(weatherFields, w.values[:], w.specified, j.slots())
	j.Interpolated = w.Interpolated()
	j.Ensemble = w.Ensemble()
	j.InvalidData = w.InvalidData()
	return json.Marshal(j)
}

// UnmarshalJSON sets exactly the bits of the fields present in data.
func (w *WeatherObservation) UnmarshalJSON(data []byte) error {
	var j weatherJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*w = WeatherObservation{}
	w.specified = decodeFields(weatherFields, j.slots(), w.values[:])
	if j.Interpolated {
		w.specified |= WeatherInterpolated
	}
	if j.Ensemble {
		w.specified |= WeatherEnsemble
	}
	if j.InvalidData {
		w.specified |= WeatherInvalidData
	}
	return nil
}
