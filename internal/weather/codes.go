package weather

// Info describes a WMO weather interpretation code.
type Info struct {
	Description string `json:"description" msgpack:"description"`
	Symbol      string `json:"symbol" msgpack:"symbol"`
	Tint        string `json:"tint,omitempty" msgpack:"tint,omitempty"` // CSS color, empty when unknown
}

const (
	tintClear  = "rgba(254, 240, 138, 0.18)"
	tintCloudy = "rgba(203, 213, 225, 0.22)"
	tintFog    = "rgba(203, 213, 225, 0.28)"
	tintRain   = "rgba(147, 197, 253, 0.22)"
	tintSnow   = "rgba(224, 242, 254, 0.35)"
	tintStorm  = "rgba(167, 139, 250, 0.18)"
)

var wmoCodes = map[int]Info{
	0:  {"Clear sky", "☀️", tintClear},
	1:  {"Mainly clear", "🌤️", tintClear},
	2:  {"Partly cloudy", "⛅", tintCloudy},
	3:  {"Overcast", "☁️", tintCloudy},
	45: {"Fog", "🌫️", tintFog},
	48: {"Rime fog", "🌫️", tintFog},
	51: {"Light drizzle", "🌦️", tintRain},
	53: {"Drizzle", "🌦️", tintRain},
	55: {"Heavy drizzle", "🌧️", tintRain},
	56: {"Freezing drizzle", "🌧️", tintSnow},
	57: {"Heavy freezing drizzle", "🌧️", tintSnow},
	61: {"Light rain", "🌧️", tintRain},
	63: {"Rain", "🌧️", tintRain},
	65: {"Heavy rain", "🌧️", tintRain},
	66: {"Freezing rain", "🌨️", tintSnow},
	67: {"Heavy freezing rain", "🌨️", tintSnow},
	71: {"Light snow", "🌨️", tintSnow},
	73: {"Snow", "❄️", tintSnow},
	75: {"Heavy snow", "❄️", tintSnow},
	77: {"Snow grains", "❄️", tintSnow},
	80: {"Rain showers", "🌦️", tintRain},
	81: {"Heavy showers", "🌧️", tintRain},
	82: {"Violent showers", "🌧️", tintRain},
	85: {"Snow showers", "🌨️", tintSnow},
	86: {"Heavy snow showers", "❄️", tintSnow},
	95: {"Thunderstorm", "⛈️", tintStorm},
	96: {"Thunderstorm w/ hail", "⛈️", tintStorm},
	99: {"Severe thunderstorm", "⛈️", tintStorm},
}

var unknownInfo = Info{Description: "Unknown", Symbol: Placeholder}

// Describe looks up a WMO code. Unknown codes get a generic entry.
func Describe(code int) Info {
	if info, ok := wmoCodes[code]; ok {
		return info
	}
	return unknownInfo
}
