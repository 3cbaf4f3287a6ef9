package domain

import "strconv"

// GridAttribute is an opaque key into the grid engine's attribute lookup.
// Values are fixed by the grid engine and carried here only so callers can
// name them; nothing in this package interprets them.
type GridAttribute int

const (
	GridLoadWarning         GridAttribute = 10000
	GridLatitude            GridAttribute = 10001
	GridLongitude           GridAttribute = 10002
	GridXLLCorner           GridAttribute = 10003
	GridYLLCorner           GridAttribute = 10004
	GridXURCorner           GridAttribute = 10005
	GridYURCorner           GridAttribute = 10006
	GridPlotResolution      GridAttribute = 10007
	GridSpatialReference    GridAttribute = 10008
	GridASCIIFileHeader     GridAttribute = 10009
	GridProjectionUnits     GridAttribute = 10010
	GridDefaultElevation    GridAttribute = 10100
	GridMedianElevation     GridAttribute = 10101
	GridMeanElevation       GridAttribute = 10102
	GridMinElevation        GridAttribute = 10103
	GridMaxElevation        GridAttribute = 10104
	GridMinSlope            GridAttribute = 10105
	GridMaxSlope            GridAttribute = 10106
	GridMinAzimuth          GridAttribute = 10107
	GridMaxAzimuth          GridAttribute = 10108
	GridDefaultElevationSet GridAttribute = 10109
	GridTimezone            GridAttribute = 10200
	GridDaylightSavings     GridAttribute = 10201
	GridDSTStart            GridAttribute = 10203
	GridDSTEnd              GridAttribute = 10204
	GridFuelsPresent        GridAttribute = 10300
	GridDEMPresent          GridAttribute = 10301
	GridDEMNoDataExists     GridAttribute = 10302
	GridDefaultFMC          GridAttribute = 10303
	GridDefaultFMCActive    GridAttribute = 10304
	GridBurnMinRH           GridAttribute = 10400
	GridBurnMinFWI          GridAttribute = 10401
	GridBurnMinISI          GridAttribute = 10402
	GridBurnMaxWS           GridAttribute = 10403
	GridBurnPeriodStart     GridAttribute = 10404
	GridBurnPeriodEnd       GridAttribute = 10405
)

var gridAttributeNames = map[GridAttribute]string{
	GridLoadWarning:         "load_warning",
	GridLatitude:            "latitude",
	GridLongitude:           "longitude",
	GridXLLCorner:           "xllcorner",
	GridYLLCorner:           "yllcorner",
	GridXURCorner:           "xurcorner",
	GridYURCorner:           "yurcorner",
	GridPlotResolution:      "plot_resolution",
	GridSpatialReference:    "spatial_reference",
	GridASCIIFileHeader:     "ascii_gridfile_header",
	GridProjectionUnits:     "projection_units",
	GridDefaultElevation:    "default_elevation",
	GridMedianElevation:     "median_elevation",
	GridMeanElevation:       "mean_elevation",
	GridMinElevation:        "min_elevation",
	GridMaxElevation:        "max_elevation",
	GridMinSlope:            "min_slope",
	GridMaxSlope:            "max_slope",
	GridMinAzimuth:          "min_azimuth",
	GridMaxAzimuth:          "max_azimuth",
	GridDefaultElevationSet: "default_elevation_set",
	GridTimezone:            "timezone",
	GridDaylightSavings:     "daylight_savings",
	GridDSTStart:            "dst_start",
	GridDSTEnd:              "dst_end",
	GridFuelsPresent:        "fuels_present",
	GridDEMPresent:          "dem_present",
	GridDEMNoDataExists:     "dem_nodata_exists",
	GridDefaultFMC:          "default_fmc",
	GridDefaultFMCActive:    "default_fmc_active",
	GridBurnMinRH:           "burningcondition_min_rh",
	GridBurnMinFWI:          "burningcondition_min_fwi",
	GridBurnMinISI:          "burningcondition_min_isi",
	GridBurnMaxWS:           "burningcondition_max_ws",
	GridBurnPeriodStart:     "burningcondition_period_start",
	GridBurnPeriodEnd:       "burningcondition_period_end",
}

func (a GridAttribute) String() string {
	if name, ok := gridAttributeNames[a]; ok {
		return name
	}
	return "grid_attribute(" + strconv.Itoa(int(a)) + ")"
}
