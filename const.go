package awair

const (
	baseURL   = "https://developer-apis.awair.is/v1"
	userURL   = baseURL + "/users/self"
	deviceURL = userURL + "/devices"

	// dateFormat is the wire format for the from/to query parameters.
	dateFormat = "2006-01-02T15:04:05.000000Z"
)

// sensorToAlias renames raw API sensor and index names to friendlier ones.
// Names missing from this table pass through unchanged.
var sensorToAlias = map[string]string{
	"temp":  "temperature",
	"humid": "humidity",
	"co2":   "carbon_dioxide",
	"voc":   "volatile_organic_compounds",
	"pm25":  "particulate_matter_2_5",
	"lux":   "illuminance",
	"spl_a": "sound_pressure_level",
}

// awairModels maps API device types to human-friendly model names.
var awairModels = map[string]string{
	"awair":         "Awair",
	"awair-element": "Awair Element",
	"awair-glow":    "Awair Glow",
	"awair-glow-c":  "Awair Glow C",
	"awair-mint":    "Awair Mint",
	"awair-omni":    "Awair Omni",
	"awair-r2":      "Awair 2nd Edition",
}
