package forecast

import "strings"

// keywordRule matches when any of its keywords occurs in the lower-cased text.
type keywordRule struct {
	Keywords []string
	// Factor multiplies whatever the ladder scales (base sales or trend growth).
	Factor float64
	// Shift is added to the overall modifier.
	Shift float64
}

func (r keywordRule) matches(text string) bool {
	for _, kw := range r.Keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// ladder is an ordered rule table. The first matching rule wins, so more
// specific phrases must come before the phrases they contain.
type ladder []keywordRule

// match returns the first rule matching text, or the neutral rule.
func (l ladder) match(text string) keywordRule {
	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return neutralRule
	}
	for _, r := range l {
		if r.matches(text) {
			return r
		}
	}
	return neutralRule
}

var neutralRule = keywordRule{Factor: 1.0}

// sentimentLadder scales base sales and shifts the overall modifier.
var sentimentLadder = ladder{
	{Keywords: []string{"very positive"}, Factor: 1.3, Shift: 0.3},
	{Keywords: []string{"very negative"}, Factor: 0.7, Shift: -0.3},
	{Keywords: []string{"positive"}, Factor: 1.15, Shift: 0.15},
	{Keywords: []string{"negative"}, Factor: 0.85, Shift: -0.15},
	{Keywords: []string{"neutral"}, Factor: 1.0},
}

// trendLadder gives the month-over-month growth multiplier. "unstable"
// must be seen before "stable".
var trendLadder = ladder{
	{Keywords: []string{"strong renewal", "high demand", "strong growth"}, Factor: 1.20},
	{Keywords: []string{"moderate growth"}, Factor: 1.10},
	{Keywords: []string{"niche", "emerging", "volatile", "unstable"}, Factor: 1.05, Shift: -0.05},
	{Keywords: []string{"stable", "steady"}, Factor: 1.02},
	{Keywords: []string{"decline", "fade", "low demand"}, Factor: 0.90},
}

var locationLadder = ladder{
	{Keywords: []string{"rural", "village", "countryside", "remote"}, Factor: 1.0, Shift: -0.15},
	{Keywords: []string{"colombo", "new york", "london", "paris", "milan", "tokyo", "dubai", "singapore"}, Factor: 1.0, Shift: 0.2},
	{Keywords: []string{"urban", "city", "metro", "downtown"}, Factor: 1.0, Shift: 0.1},
}

// ageLadder checks seniors first so "50+" never falls through to a
// younger bracket that shares digits.
var ageLadder = ladder{
	{Keywords: []string{"50+", "55+", "60+", "65+", "senior", "elderly", "retire"}, Factor: 1.0, Shift: -0.2},
	{Keywords: []string{"teen", "13-17", "gen z"}, Factor: 1.0, Shift: 0.3},
	{Keywords: []string{"18-24", "18-25", "young adult", "20s"}, Factor: 1.0, Shift: 0.15},
	{Keywords: []string{"45-", "40s"}, Factor: 1.0, Shift: -0.1},
}

// genderLadder lists "women" and "female" ahead of the neutral "men" and
// "male" rows, which they contain.
var genderLadder = ladder{
	{Keywords: []string{"unisex", "all genders"}, Factor: 1.0, Shift: 0.1},
	{Keywords: []string{"women", "female"}, Factor: 1.0, Shift: 0.05},
	{Keywords: []string{"men", "male"}, Factor: 1.0},
}

// confidenceLadder scales the overall modifier instead of shifting it.
var confidenceLadder = ladder{
	{Keywords: []string{"low"}, Factor: 0.8},
	{Keywords: []string{"high"}, Factor: 1.1},
	{Keywords: []string{"medium"}, Factor: 1.0},
}
