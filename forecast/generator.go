// Package forecast turns categorical market signals into a synthetic
// monthly sales curve for charting.
package forecast

import (
	"math"
	"math/rand/v2"
	"time"
)

// Horizon is the number of monthly periods in every series.
const Horizon = 5

const (
	DefaultBaseSales = 1000.0
	DefaultFloor     = 25
	DefaultNoiseBand = 0.06

	MinModifier = 0.2
	MaxModifier = 2.5

	// MaxBaseSales bounds WithBaseSales so a full-growth series stays well
	// inside MaxSalesVolume.
	MaxBaseSales = 1e8
	// MaxSalesVolume caps a single point.
	MaxSalesVolume = math.MaxInt32
)

// Seasonality is applied index-wise to the periods of a series.
var Seasonality = []float64{0.9, 1.0, 1.15, 1.25, 1.1}

// Input carries the free-text signals a forecast is derived from. Every
// field may be empty.
type Input struct {
	TrendLabel      string `json:"trendLabel"`
	Sentiment       string `json:"sentiment"`
	ConfidenceLevel string `json:"confidenceLevel"`
	Location        string `json:"location"`
	AgeGroup        string `json:"ageGroup"`
	Gender          string `json:"gender"`
}

// Point is one month of simulated sales.
type Point struct {
	PeriodLabel string `json:"period"`
	SalesVolume int    `json:"sales"`
}

// Series is a chronological run of Horizon points.
type Series []Point

// RandomSource yields uniform values in [0, 1).
type RandomSource interface {
	Float64() float64
}

type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// Generator produces forecast series. The zero value is not usable; build one
// with NewGenerator.
type Generator struct {
	baseSales float64
	floor     int
	noiseBand float64
	random    RandomSource
	now       func() time.Time
}

// Option configures a Generator.
type Option func(*Generator)

// WithBaseSales overrides the starting volume. Values outside
// (0, MaxBaseSales] are ignored.
func WithBaseSales(v float64) Option {
	return func(g *Generator) {
		if v > 0 && v <= MaxBaseSales {
			g.baseSales = v
		}
	}
}

// WithFloor overrides the minimum sales volume. Values below 1 are ignored.
func WithFloor(v int) Option {
	return func(g *Generator) {
		if v >= 1 {
			g.floor = v
		}
	}
}

// WithNoiseBand sets the half-width of the uniform noise factor. Zero
// disables noise.
func WithNoiseBand(v float64) Option {
	return func(g *Generator) {
		if v >= 0 && v < 1 {
			g.noiseBand = v
		}
	}
}

// WithRandom injects the random source. The source must be safe for the
// concurrency it is used with; the default is the goroutine-safe global one.
func WithRandom(src RandomSource) Option {
	return func(g *Generator) {
		if src != nil {
			g.random = src
		}
	}
}

// WithClock injects the clock used for period labels.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator builds a Generator with the default constants.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		baseSales: DefaultBaseSales,
		floor:     DefaultFloor,
		noiseBand: DefaultNoiseBand,
		random:    globalSource{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Floor returns the minimum sales volume of any point.
func (g *Generator) Floor() int { return g.floor }

// NoiseBand returns the half-width of the noise factor.
func (g *Generator) NoiseBand() float64 { return g.noiseBand }

// BaseSales returns the starting volume before any adjustment.
func (g *Generator) BaseSales() float64 { return g.baseSales }

// OverallModifier returns the clamped modifier combining sentiment,
// demographic, geographic, niche-trend and confidence adjustments.
func (g *Generator) OverallModifier(in Input) float64 {
	modifier := 1.0
	modifier += sentimentLadder.match(in.Sentiment).Shift
	modifier += trendLadder.match(in.TrendLabel).Shift
	modifier += locationLadder.match(in.Location).Shift
	modifier += ageLadder.match(in.AgeGroup).Shift
	modifier += genderLadder.match(in.Gender).Shift
	modifier *= confidenceLadder.match(in.ConfidenceLevel).Factor
	return clamp(modifier, MinModifier, MaxModifier)
}

// TrendMultiplier returns the monthly compounding growth for a trend label.
func TrendMultiplier(trendLabel string) float64 {
	return trendLadder.match(trendLabel).Factor
}

// SentimentFactor returns the base-sales multiplier for a sentiment.
func SentimentFactor(sentiment string) float64 {
	return sentimentLadder.match(sentiment).Factor
}

// Generate computes a series for in, starting at the current month.
func (g *Generator) Generate(in Input) Series {
	base := g.baseSales * SentimentFactor(in.Sentiment)
	modifier := g.OverallModifier(in)
	growth := TrendMultiplier(in.TrendLabel)

	start := g.now()
	series := make(Series, Horizon)
	for i := 0; i < Horizon; i++ {
		noise := (g.random.Float64()*2 - 1) * g.noiseBand
		raw := base * modifier * math.Pow(growth, float64(i)) * Seasonality[i%len(Seasonality)] * (1 + noise)
		series[i] = Point{
			PeriodLabel: PeriodLabel(start, i),
			SalesVolume: g.volume(raw),
		}
	}
	return series
}

func (g *Generator) volume(raw float64) int {
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return g.floor
	}
	return int(math.Round(clamp(raw, float64(g.floor), MaxSalesVolume)))
}

// PeriodLabel names the month offset months after start, e.g. "Jan 26".
func PeriodLabel(start time.Time, offset int) string {
	month := time.Date(start.Year(), start.Month()+time.Month(offset), 1, 0, 0, 0, 0, start.Location())
	return month.Format("Jan 06")
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return 1.0
	}
	return math.Min(hi, math.Max(lo, v))
}
