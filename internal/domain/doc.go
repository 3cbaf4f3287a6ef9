// Package domain models fire weather observations and fire weather index
// records whose fields are individually marked present or absent.
//
// # Presence masks
//
// Every record pairs a fixed set of numeric fields with one presence mask.
// A field's value is meaningful only while its bit is set; an unset bit means
// absent, whatever is stored (including zero). Accessors therefore return
// (value, ok) and setters always write the value and the bit together.
//
// Bit values are the grid engine's identifiers and are stable:
//
//	weather:  temperature 0x01  dew_point 0x02  rh 0x04  precipitation 0x08
//	          wind_speed 0x10  wind_direction 0x20
//	          modifiers: interpolated 0x40  ensemble 0x80  invalid_data 0x100
//	hourly:   ffmc 0x100  isi 0x200  fwi 0x400
//	daily:    ffmc 0x1000  dmc 0x2000  dc 0x4000  bui 0x8000  isi 0x10000  fwi 0x20000
//
// Modifier bits describe the whole weather record, not a field. invalid_data
// is advisory: it never turns into an error here.
//
// # Merging
//
// Merge is right-biased. For each field the overlay's value is taken when
// specified, else the base's, else the field stays absent. Modifier bits are
// kept when set on either side. Callers wanting the best available data merge
// sources in ascending order of trust, most authoritative last:
//
//	best := ensemble.Merge(interpolated).Merge(observed)
//
// Merging across record kinds fails with ErrTypeMismatch.
//
// # Derived fields
//
// CanCompute consults a static dependency table (for example BUI needs DMC
// and DC). It evaluates no formula.
package domain
