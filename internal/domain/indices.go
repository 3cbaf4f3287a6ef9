package domain

import "encoding/json"

const (
	hrFFMC = iota
	hrISI
	hrFWI
	hourlyFieldCount
)

// HourlyIndexRecord holds the hourly fire weather indices.
type HourlyIndexRecord struct {
	values    [hourlyFieldCount]float64
	specified HourlyBits
}

func (h HourlyIndexRecord) Kind() Kind { return KindHourly }
func (h HourlyIndexRecord) Specified() HourlyBits { return h.specified }
func (h HourlyIndexRecord) IsSpecified(bit HourlyBits) bool { return h.specified&bit != 0 }
func (h *HourlyIndexRecord) SetSpecified(bit HourlyBits) { h.specified |= bit }
func (h *HourlyIndexRecord) ClearSpecified(bit HourlyBits) { h.specified &^= bit }
func (h HourlyIndexRecord) AllSpecified() bool { return h.specified&HourlyAll == HourlyAll }
func (h HourlyIndexRecord) Complete() bool { return h.AllSpecified() }

func (h HourlyIndexRecord) FFMC() (float64, bool) { return h.field(hrFFMC) }
func (h HourlyIndexRecord) ISI() (float64, bool) { return h.field(hrISI) }
func (h HourlyIndexRecord) FWI() (float64, bool) { return h.field(hrFWI) }

func (h *HourlyIndexRecord) SetFFMC(v float64) { h.set(hrFFMC, v) }
func (h *HourlyIndexRecord) SetISI(v float64) { h.set(hrISI, v) }
func (h *HourlyIndexRecord) SetFWI(v float64) { h.set(hrFWI, v) }

// Merge combines h with overlay using the overlay-wins rule per field.
func (h HourlyIndexRecord) Merge(overlay HourlyIndexRecord) HourlyIndexRecord {
	var out HourlyIndexRecord
	out.specified = mergeFields(hourlyFields, h.values[:], overlay.values[:], out.values[:], h.specified, overlay.specified)
	return out
}

func (h HourlyIndexRecord) Equal(other HourlyIndexRecord) bool {
	return equalFields(hourlyFields, h.values[:], other.values[:], h.specified, other.specified)
}

func (h HourlyIndexRecord) Values() map[string]float64 {
	return specifiedValues(hourlyFields, h.values[:], h.specified)
}

func (h HourlyIndexRecord) String() string { return "hourly{" + h.specified.String() + "}" }

func (h HourlyIndexRecord) field(i int) (float64, bool) {
	if h.specified&hourlyFields[i].bit == 0 {
		return 0, false
	}
	return h.values[i], true
}

func (h *HourlyIndexRecord) set(i int, v float64) {
	h.values[i] = v
	h.specified |= hourlyFields[i].bit
}

type hourlyJSON struct {
	FFMC *float64 `json:"ffmc,omitempty"`
	ISI  *float64 `json:"isi,omitempty"`
	FWI  *float64 `json:"fwi,omitempty"`
}

func (j *hourlyJSON) slots() []**float64 { return []**float64{&j.FFMC, &j.ISI, &j.FWI} }

func (h HourlyIndexRecord) MarshalJSON() ([]byte, error) {
	var j hourlyJSON
	encodeFields(hourlyFields, h.values[:], h.specified, j.slots())
	return json.Marshal(j)
}

func (h *HourlyIndexRecord) UnmarshalJSON(data []byte) error {
	var j hourlyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*h = HourlyIndexRecord{}
	h.specified = decodeFields(hourlyFields, j.slots(), h.values[:])
	return nil
}

const (
	dyFFMC = iota
	dyDMC
	dyDC
	dyBUI
	dyISI
	dyFWI
	dailyFieldCount
)

// DailyIndexRecord holds the daily fire weather indices: the three hourly
// indices plus the duff moisture code, drought code and buildup index.
type DailyIndexRecord struct {
	values    [dailyFieldCount]float64
	specified DailyBits
}

func (d DailyIndexRecord) Kind() Kind { return KindDaily }
func (d DailyIndexRecord) Specified() DailyBits { return d.specified }
func (d DailyIndexRecord) IsSpecified(bit DailyBits) bool { return d.specified&bit != 0 }
func (d *DailyIndexRecord) SetSpecified(bit DailyBits) { d.specified |= bit }
func (d *DailyIndexRecord) ClearSpecified(bit DailyBits) { d.specified &^= bit }
func (d DailyIndexRecord) AllSpecified() bool { return d.specified&DailyAll == DailyAll }
func (d DailyIndexRecord) Complete() bool { return d.AllSpecified() }

func (d DailyIndexRecord) FFMC() (float64, bool) { return d.field(dyFFMC) }
func (d DailyIndexRecord) DMC() (float64, bool) { return d.field(dyDMC) }
func (d DailyIndexRecord) DC() (float64, bool) { return d.field(dyDC) }
func (d DailyIndexRecord) BUI() (float64, bool) { return d.field(dyBUI) }
func (d DailyIndexRecord) ISI() (float64, bool) { return d.field(dyISI) }
func (d DailyIndexRecord) FWI() (float64, bool) { return d.field(dyFWI) }

func (d *DailyIndexRecord) SetFFMC(v float64) { d.set(dyFFMC, v) }
func (d *DailyIndexRecord) SetDMC(v float64) { d.set(dyDMC, v) }
func (d *DailyIndexRecord) SetDC(v float64) { d.set(dyDC, v) }
func (d *DailyIndexRecord) SetBUI(v float64) { d.set(dyBUI, v) }
func (d *DailyIndexRecord) SetISI(v float64) { d.set(dyISI, v) }
func (d *DailyIndexRecord) SetFWI(v float64) { d.set(dyFWI, v) }

// Merge combines d with overlay using the overlay-wins rule per field.
func (d DailyIndexRecord) Merge(overlay DailyIndexRecord) DailyIndexRecord {
	var out DailyIndexRecord
	out.specified = mergeFields(dailyFields, d.values[:], overlay.values[:], out.values[:], d.specified, overlay.specified)
	return out
}

func (d DailyIndexRecord) Equal(other DailyIndexRecord) bool {
	return equalFields(dailyFields, d.values[:], other.values[:], d.specified, other.specified)
}

func (d DailyIndexRecord) Values() map[string]float64 {
	return specifiedValues(dailyFields, d.values[:], d.specified)
}

func (d DailyIndexRecord) String() string { return "daily{" + d.specified.String() + "}" }

func (d DailyIndexRecord) field(i int) (float64, bool) {
	if d.specified&dailyFields[i].bit == 0 {
		return 0, false
	}
	return d.values[i], true
}

func (d *DailyIndexRecord) set(i int, v float64) {
	d.values[i] = v
	d.specified |= dailyFields[i].bit
}

type dailyJSON struct {
	FFMC *float64 `json:"ffmc,omitempty"`
	DMC  *float64 `json:"dmc,omitempty"`
	DC   *float64 `json:"dc,omitempty"`
	BUI  *float64 `json:"bui,omitempty"`
	ISI  *float64 `json:"isi,omitempty"`
	FWI  *float64 `json:"fwi,omitempty"`
}

func (j *dailyJSON) slots() []**float64 {
	return []**float64{&j.FFMC, &j.DMC, &j.DC, &j.BUI, &j.ISI, &j.FWI}
}

func (d DailyIndexRecord) MarshalJSON() ([]byte, error) {
	var j dailyJSON
	encodeFields(dailyFields, d.values[:], d.specified, j.slots())
	return json.Marshal(j)
}

func (d *DailyIndexRecord) UnmarshalJSON(data []byte) error {
	var j dailyJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	*d = DailyIndexRecord{}
	d.specified = decodeFields(dailyFields, j.slots(), d.values[:])
	return nil
}

// encodeFields points each slot of a JSON shadow struct at the value of a
// specified field. Slots of unspecified fields stay nil and are omitted.
func encodeFields[M mask](fields []namedBit[M], values []float64, m M, slots []**float64) {
	for i, f := range fields {
		if m&f.bit != 0 {
			v := values[i]
			*slots[i] = &v
		}
	}
}

// decodeFields copies the non-nil slots into values and returns their mask.
func decodeFields[M mask](fields []namedBit[M], slots []**float64, values []float64) M {
	var m M
	for i, f := range fields {
		if p := *slots[i]; p != nil {
			values[i] = *p
			m |= f.bit
		}
	}
	return m
}
