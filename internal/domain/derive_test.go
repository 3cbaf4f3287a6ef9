package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDailyCanCompute_BUI(t *testing.T) {
	var d DailyIndexRecord
	d.SetDMC(16.2)

	assert.False(t, d.CanCompute(DailyBUI))

	d.SetDC(105.0)
	assert.True(t, d.CanCompute(DailyBUI))
}

func TestDailyCanCompute_Table(t *testing.T) {
	cases := []struct {
		name   string
		mask   DailyBits
		target DailyBits
		want   bool
	}{
		{"fwi needs isi and bui", DailyISI | DailyBUI, DailyFWI, true},
		{"fwi missing bui", DailyISI | DailyDMC | DailyDC, DailyFWI, false},
		{"isi from ffmc", DailyFFMC, DailyISI, true},
		{"ffmc has no index inputs", DailyAll, DailyFFMC, false},
		{"dc has no index inputs", DailyAll, DailyDC, false},
		{"multi-bit target", DailyAll, DailyBUI | DailyFWI, false},
		{"unknown target", DailyAll, DailyBits(0x1), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var d DailyIndexRecord
			d.SetSpecified(tc.mask)
			assert.Equal(t, tc.want, d.CanCompute(tc.target))
		})
	}
}

func TestHourlyCanCompute(t *testing.T) {
	var h HourlyIndexRecord
	assert.False(t, h.CanCompute(HourlyISI))

	h.SetFFMC(89)
	assert.True(t, h.CanCompute(HourlyISI))
	assert.False(t, h.CanCompute(HourlyFWI))

	h.SetISI(7.5)
	assert.True(t, h.CanCompute(HourlyFWI))
	assert.False(t, h.CanCompute(HourlyFFMC))
}

func TestWeatherCanCompute(t *testing.T) {
	var w WeatherObservation
	w.SetTemperature(24)
	w.SetPrecipitation(0)

	assert.True(t, w.CanCompute(DailyDC))
	assert.False(t, w.CanCompute(DailyDMC))

	w.SetRH(30)
	w.SetWindSpeed(15)
	assert.True(t, w.CanCompute(DailyFFMC))
	assert.Equal(t, []string{"ffmc", "dmc", "dc"}, w.Derivable())

	w.SetSpecified(WeatherInvalidData)
	assert.False(t, w.CanCompute(DailyDC))
	assert.Empty(t, w.Derivable())
}

func TestDerivable_SkipsSpecifiedTargets(t *testing.T) {
	var d DailyIndexRecord
	d.SetFFMC(90)
	d.SetDMC(30)
	d.SetDC(200)
	assert.Equal(t, []string{"bui", "isi"}, d.Derivable())

	d.SetBUI(45)
	d.SetISI(9)
	assert.Equal(t, []string{"fwi"}, d.Derivable())

	d.SetFWI(20)
	assert.Empty(t, d.Derivable())
}

func TestCanCompute_DoesNotMutate(t *testing.T) {
	var d DailyIndexRecord
	d.SetDMC(10)
	d.SetDC(50)
	before := d

	d.CanCompute(DailyBUI)
	d.Derivable()

	assert.Equal(t, before, d)
}
