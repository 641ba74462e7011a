package source

// Price patterns target the grouped Rial/Toman figures these pages publish
// (digits are Latin by the time patterns run). Change patterns capture an
// optional sign so explicit +/- survives into the raw fields.
const (
	groupedPrice  = `(\d{1,3}(?:,\d{3}){2,})`
	signedPercent = `([+-]?\d+(?:\.\d+)?%)`
)

// colour cues shared by most of the sites' tickers.
var (
	positiveCues = []string{"green", "positive", "increase", "text-success", "up"}
	negativeCues = []string{"red", "negative", "decrease", "text-danger", "down"}
)

// Sites lists every supported source. Unit factors are declared here, once
// per source: milli and talasea publish Rial per gram; digikala publishes
// per-milligram pricing; goldika and melli quote in Toman.
var Sites = []Site{
	{
		Name:          "milli",
		URL:           "https://milli.gold/",
		Currency:      "IRR",
		PricePattern:  groupedPrice,
		ChangePattern: signedPercent,
		PositiveCues:  positiveCues,
		NegativeCues:  negativeCues,
	},
	{
		Name:          "digikala",
		URL:           "https://www.digikala.com/gold/",
		Currency:      "IRR",
		UnitFactor:    1000, // per-milligram price
		PricePattern:  `(\d{1,3}(?:,\d{3})+)`,
		ChangePattern: signedPercent,
		PositiveCues:  positiveCues,
		NegativeCues:  negativeCues,
	},
	{
		Name:         "talapp",
		URL:          "https://talapp.ir/",
		Currency:     "IRR",
		PricePattern: groupedPrice,
	},
	{
		Name:          "melli",
		URL:           "https://melligold.com/",
		Currency:      "IRR",
		UnitFactor:    10, // Toman-quoted
		PricePattern:  `(\d{1,3}(?:,\d{3})+)`,
		ChangePattern: signedPercent,
		PositiveCues:  positiveCues,
		NegativeCues:  negativeCues,
	},
	{
		Name:         "goldika",
		URL:          "https://goldika.ir/",
		Currency:     "IRR",
		UnitFactor:   10, // Toman-quoted
		PricePattern: `(\d{1,3}(?:,\d{3})+)`,
	},
	{
		Name:          "talasea",
		URL:           "https://talasea.ir/",
		Currency:      "IRR",
		PricePattern:  groupedPrice,
		ChangePattern: signedPercent,
		PositiveCues:  positiveCues,
		NegativeCues:  negativeCues,
	},
}
