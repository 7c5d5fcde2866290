package models

// CurrentConditions holds the "now" block of a forecast.
type CurrentConditions struct {
	Temperature float64 `json:"temperature" msgpack:"temperature"`
	FeelsLike   float64 `json:"feelsLike" msgpack:"feelsLike"`
	Humidity    float64 `json:"humidity" msgpack:"humidity"`
	WindSpeed   float64 `json:"windspeed" msgpack:"windspeed"`
	WeatherCode int     `json:"weathercode" msgpack:"weathercode"`
}

// DailyForecast holds parallel per-day series. Index 0 is today.
type DailyForecast struct {
	Time        []string   `json:"time" msgpack:"time"`
	WeatherCode []int      `json:"weathercode" msgpack:"weathercode"`
	TempMax     []float64  `json:"tempMax" msgpack:"tempMax"`
	TempMin     []float64  `json:"tempMin" msgpack:"tempMin"`
	PrecipProb  []*float64 `json:"precipProb" msgpack:"precipProb"` // provider may omit days
}

// WeatherUnits carries the unit labels reported by the provider.
type WeatherUnits struct {
	Temperature string `json:"temperature" msgpack:"temperature"`
	WindSpeed   string `json:"windspeed" msgpack:"windspeed"`
}

// WeatherData is the normalized forecast for one location.
type WeatherData struct {
	Current CurrentConditions `json:"current" msgpack:"current"`
	Daily   DailyForecast     `json:"daily" msgpack:"daily"`
	Units   WeatherUnits      `json:"units" msgpack:"units"`
}
