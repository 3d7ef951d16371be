package extract

import "strings"

// PriceRule maps a domain fragment to an estimated price in whole KRW. Rules
// are matched in order, most specific first, so luxury brand domains must
// come before generic marketplace fragments. The table is replaceable data,
// not business logic; values are rough tier averages, not live prices.
type PriceRule struct {
	Fragment string
	Price    int
}

var priceRules = []PriceRule{
	// Luxury brands.
	{"louisvuitton", 1800000},
	{"chanel", 2200000},
	{"hermes", 2500000},
	{"gucci", 1500000},
	{"prada", 1400000},
	{"burberry", 900000},
	{"balenciaga", 1100000},
	// Fashion specialty stores.
	{"musinsa", 45000},
	{"29cm", 52000},
	{"wconcept", 68000},
	{"zigzag", 35000},
	{"ably", 28000},
	{"ssense", 350000},
	{"farfetch", 420000},
	// Korean marketplaces.
	{"coupang", 25000},
	{"gmarket", 22000},
	{"11st", 20000},
	{"ssg", 38000},
	{"lotteon", 32000},
	// Global platforms.
	{"amazon", 35000},
	{"aliexpress", 15000},
	{"taobao", 18000},
	{"rakuten", 40000},
	{"uniqlo", 29900},
	{"zara", 49900},
}

var tldDefaults = []PriceRule{
	{".kr", 30000},
	{".cn", 20000},
	{".jp", 40000},
	{".com", 35000},
}

const globalDefaultPrice = 30000

// EstimatePrice returns a plausible whole-KRW price for a product from the
// given domain. It checks the retailer table first, then TLD-based regional
// defaults, then a single global default. Always non-negative.
func EstimatePrice(domain string) int {
	domain = strings.ToLower(domain)
	for _, rule := range priceRules {
		if strings.Contains(domain, rule.Fragment) {
			return rule.Price
		}
	}
	for _, rule := range tldDefaults {
		if strings.HasSuffix(domain, rule.Fragment) {
			return rule.Price
		}
	}
	return globalDefaultPrice
}
