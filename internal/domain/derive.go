package domain

// Dependency tables for the fire weather index system. Each entry lists the
// fields that must be specified before the target is meaningful to compute.
// The tables are declarations only; the formulas live outside this package.
var (
	dailyInputs = map[DailyBits]DailyBits{
		DailyBUI: DailyDMC | DailyDC,
		DailyISI: DailyFFMC,
		DailyFWI: DailyISI | DailyBUI,
	}

	// The hourly record carries no BUI, so the hourly FWI variant is driven
	// by ISI and FFMC.
	hourlyInputs = map[HourlyBits]HourlyBits{
		HourlyISI: HourlyFFMC,
		HourlyFWI: HourlyISI | HourlyFFMC,
	}

	// Weather inputs of the moisture codes, excluding the previous day's code.
	weatherInputs = map[DailyBits]WeatherBits{
		DailyFFMC: WeatherTemperature | WeatherRH | WeatherWindSpeed | WeatherPrecipitation,
		DailyDMC:  WeatherTemperature | WeatherRH | WeatherPrecipitation,
		DailyDC:   WeatherTemperature | WeatherPrecipitation,
	}
)

// CanCompute reports whether target can be derived from the fields specified
// on d. FFMC, DMC and DC have no index-level inputs and report false, as do
// unknown or multi-bit targets.
func (d DailyIndexRecord) CanCompute(target DailyBits) bool {
	inputs, ok := dailyInputs[target]
	return ok && d.specified&inputs == inputs
}

// CanCompute reports whether target can be derived from the fields specified on h.
func (h HourlyIndexRecord) CanCompute(target HourlyBits) bool {
	inputs, ok := hourlyInputs[target]
	return ok && h.specified&inputs == inputs
}

// CanCompute reports whether the weather inputs of a daily moisture code are
// present. A record flagged as invalid data never qualifies.
func (w WeatherObservation) CanCompute(target DailyBits) bool {
	if w.InvalidData() {
		return false
	}
	inputs, ok := weatherInputs[target]
	return ok && w.specified&inputs == inputs
}

func (d DailyIndexRecord) Derivable() []string {
	var out []string
	for _, f := range dailyFields {
		if !d.IsSpecified(f.bit) && d.CanCompute(f.bit) {
			out = append(out, f.name)
		}
	}
	return out
}

func (h HourlyIndexRecord) Derivable() []string {
	var out []string
	for _, f := range hourlyFields {
		if !h.IsSpecified(f.bit) && h.CanCompute(f.bit) {
			out = append(out, f.name)
		}
	}
	return out
}

// Derivable lists the daily moisture codes whose weather inputs are present.
func (w WeatherObservation) Derivable() []string {
	var out []string
	for _, f := range dailyFields {
		if w.CanCompute(f.bit) {
			out = append(out, f.name)
		}
	}
	return out
}
