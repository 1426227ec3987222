package domain

// economics.go — the demand model.
//
// Demand is a product of multiplicative factors:
//
//	base_sales × price_impact × day_of_week × month × weather
//	           × category_weather × choice × noise
//
// Every random draw uses a generator seeded from the calendar day (and
// product, for noise) so two runs over the same days produce bit-identical
// demand. Nothing in this file mutates state.

import (
	"hash/fnv"
	"math"
	"math/rand"
)

// Weather is the categorical outcome drawn for a day.
type Weather string

const (
	WeatherSunny        Weather = "sunny"
	WeatherPartlyCloudy Weather = "partly_cloudy"
	WeatherCloudy       Weather = "cloudy"
	WeatherRainy        Weather = "rainy"
	WeatherStormy       Weather = "stormy"
	WeatherSnowy        Weather = "snowy"
)

// weatherOrder fixes the iteration order of the probability walk. Changing
// it changes which outcome a given draw lands on, breaking replays.
var weatherOrder = []Weather{
	WeatherSunny, WeatherPartlyCloudy, WeatherCloudy,
	WeatherRainy, WeatherStormy, WeatherSnowy,
}

var weatherMultipliers = map[Weather]float64{
	WeatherSunny:        1.10,
	WeatherPartlyCloudy: 1.00,
	WeatherCloudy:       0.90,
	WeatherRainy:        0.65,
	WeatherStormy:       0.40,
	WeatherSnowy:        0.50,
}

// weatherProbabilities is indexed by month (1-12), values follow weatherOrder.
var weatherProbabilities = map[int][6]float64{
	1:  {0.20, 0.20, 0.30, 0.15, 0.05, 0.10},
	2:  {0.25, 0.25, 0.25, 0.15, 0.05, 0.05},
	3:  {0.30, 0.30, 0.20, 0.15, 0.05, 0.00},
	4:  {0.35, 0.30, 0.20, 0.12, 0.03, 0.00},
	5:  {0.45, 0.30, 0.15, 0.08, 0.02, 0.00},
	6:  {0.55, 0.25, 0.12, 0.06, 0.02, 0.00},
	7:  {0.60, 0.25, 0.10, 0.04, 0.01, 0.00},
	8:  {0.55, 0.25, 0.12, 0.06, 0.02, 0.00},
	9:  {0.45, 0.30, 0.15, 0.08, 0.02, 0.00},
	10: {0.35, 0.30, 0.20, 0.12, 0.03, 0.00},
	11: {0.25, 0.25, 0.25, 0.15, 0.05, 0.05},
	12: {0.20, 0.20, 0.30, 0.15, 0.05, 0.10},
}

// Office location: weekdays carry the traffic, Friday peaks.
var dayOfWeekMultipliers = [7]float64{
	0.85, // Monday
	1.00, // Tuesday
	1.05, // Wednesday
	1.00, // Thursday
	1.15, // Friday
	0.70, // Saturday
	0.60, // Sunday
}

var monthMultipliers = map[int]float64{
	1: 0.80, 2: 0.85, 3: 0.95, 4: 1.00, 5: 1.05, 6: 1.10,
	7: 0.90, 8: 0.85, 9: 1.05, 10: 1.00, 11: 1.05, 12: 0.75,
}

// choiceMultipliers rewards a 3-product assortment and punishes both an
// empty machine and an overloaded one. The table is an intentional
// calibration; it is not derived from a formula.
var choiceMultipliers = map[int]float64{
	0: 0.0,
	1: 0.60,
	2: 0.95,
	3: 1.10,
	4: 1.00,
}

const overChoiceMultiplier = 0.50 // 5+ distinct products

// DayOfWeek maps a simulation day to 0=Monday..6=Sunday. Day 0 is a Monday.
func DayOfWeek(day int) int {
	return day % 7
}

// Month maps a simulation day to 1-12, with 30-day months and day 0 = Jan 1.
func Month(day int) int {
	return ((day / 30) % 12) + 1
}

// WeatherForDay draws the day's weather. The generator is reseeded from the
// day itself, so the forecast is a pure function of the calendar.
func WeatherForDay(day int) (Weather, float64) {
	month := Month(day)
	probs := weatherProbabilities[month]

	rng := rand.New(rand.NewSource(int64(day)*17 + 42))
	draw := rng.Float64()

	weather := WeatherPartlyCloudy
	cumulative := 0.0
	for i, w := range weatherOrder {
		cumulative += probs[i]
		if draw <= cumulative {
			weather = w
			break
		}
	}
	return weather, weatherMultipliers[weather]
}

// CategoryWeatherModifier adjusts hot and cold beverages for season and
// weather. Snacks do not care.
func CategoryWeatherModifier(category Category, weather Weather, month int) float64 {
	isSummer := month >= 6 && month <= 8
	isWinter := month == 12 || month == 1 || month == 2
	badWeather := weather == WeatherRainy || weather == WeatherStormy || weather == WeatherSnowy

	switch category {
	case CategoryHotBeverage:
		switch {
		case badWeather:
			return 1.4
		case weather == WeatherSunny && isSummer:
			return 0.5
		case isWinter:
			return 1.3
		}
		return 1.0
	case CategoryColdBeverage:
		switch {
		case weather == WeatherSunny && isSummer:
			return 1.5
		case badWeather:
			return 0.6
		case isWinter:
			return 0.7
		}
		return 1.0
	}
	return 1.0
}

// ChoiceMultiplier looks up the assortment factor by count of distinct
// products stocked.
func ChoiceMultiplier(distinctProducts int) float64 {
	if m, ok := choiceMultipliers[distinctProducts]; ok {
		return m
	}
	return overChoiceMultiplier
}

// Demand computes the units customers would buy of a product today, given
// its price and the machine's current assortment. Callers clamp to available
// inventory themselves.
func Demand(productID string, price float64, day int, distinctStocked int) int {
	p, ok := Catalog[productID]
	if !ok {
		return 0
	}

	priceImpact := 1.0
	if p.TypicalRetail > 0 {
		change := (price - p.TypicalRetail) / p.TypicalRetail
		priceImpact = math.Max(0.1, 1+p.PriceElasticity*change)
	}

	weather, weatherMult := WeatherForDay(day)
	month := Month(day)

	demand := p.BaseSales *
		priceImpact *
		dayOfWeekMultipliers[DayOfWeek(day)] *
		monthMultipliers[month] *
		weatherMult *
		CategoryWeatherModifier(p.Category, weather, month) *
		ChoiceMultiplier(distinctStocked)

	demand *= demandNoise(day, productID)

	units := int(math.Round(demand))
	if units < 0 {
		return 0
	}
	return units
}

// demandNoise is a ±20% jitter seeded from (day, product). fnv32a keeps the
// product component stable across processes, unlike a map-order or pointer
// derived value.
func demandNoise(day int, productID string) float64 {
	rng := rand.New(rand.NewSource(int64(day)*100 + int64(fnv32a(productID))))
	return 0.8 + rng.Float64()*0.4
}

func fnv32a(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// DayContext bundles the calendar-derived factors for a day; the reporting
// layer uses it for briefings and debugging.
type DayContext struct {
	Day           int
	DayOfWeek     string
	DayOfWeekMult float64
	Month         string
	MonthMult     float64
	Weather       Weather
	WeatherMult   float64
}

var dowNames = [7]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

var monthNames = [13]string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}

// ContextForDay returns the full calendar context for a day.
func ContextForDay(day int) DayContext {
	dow := DayOfWeek(day)
	month := Month(day)
	weather, weatherMult := WeatherForDay(day)
	return DayContext{
		Day:           day,
		DayOfWeek:     dowNames[dow],
		DayOfWeekMult: dayOfWeekMultipliers[dow],
		Month:         monthNames[month],
		MonthMult:     monthMultipliers[month],
		Weather:       weather,
		WeatherMult:   weatherMult,
	}
}
