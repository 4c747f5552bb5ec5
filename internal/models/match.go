package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Form field names shared by the HTML page and the JSON API
const (
	FieldBattingTeam  = "batting_team"
	FieldBowlingTeam  = "bowling_team"
	FieldCity         = "city"
	FieldCurrentScore = "current_score"
	FieldOvers        = "overs"
	FieldWickets      = "wickets"
	FieldLastFive     = "last_five"
)

// Twenty20 innings limits
const (
	MaxOvers     = 20
	MaxWickets   = 10
	BallsPerOver = 6
	MaxBalls     = MaxOvers * BallsPerOver
)

// MatchForm is the raw, unparsed match state exactly as submitted
type MatchForm struct {
	BattingTeam  string `json:"batting_team"`
	BowlingTeam  string `json:"bowling_team"`
	City         string `json:"city"`
	CurrentScore string `json:"current_score"`
	Overs        string `json:"overs"`
	Wickets      string `json:"wickets"`
	LastFive     string `json:"last_five"`
}

// MatchSnapshot is the parsed match state for a single request
type MatchSnapshot struct {
	BattingTeam  string  `json:"batting_team" validate:"required,team,nefield=BowlingTeam"`
	BowlingTeam  string  `json:"bowling_team" validate:"required,team"`
	City         string  `json:"city" validate:"required,city"`
	CurrentScore int     `json:"current_score" validate:"gte=0,lte=1000"`
	Overs        float64 `json:"overs" validate:"gte=0,lte=20"`
	Wickets      int     `json:"wickets" validate:"gte=0,lte=10"`
	LastFive     int     `json:"last_five" validate:"gte=0,lte=1000"`
}

// BallsLeft returns the deliveries remaining in a 120-ball innings
func (m MatchSnapshot) BallsLeft() float64 {
	return MaxBalls - m.Overs*BallsPerOver
}

// WicketsLeft returns how many wickets the batting side still has
func (m MatchSnapshot) WicketsLeft() int {
	return MaxWickets - m.Wickets
}

// CurrentRunRate is runs per over so far, 0 before the first ball
func (m MatchSnapshot) CurrentRunRate() float64 {
	if m.Overs == 0 {
		return 0
	}
	return float64(m.CurrentScore) / m.Overs
}

// FeatureRow is the single-row model input. Field order and JSON names
// must match the columns the model was trained on.
type FeatureRow struct {
	BattingTeam    string  `json:"batting_team"`
	BowlingTeam    string  `json:"bowling_team"`
	City           string  `json:"city"`
	CurrentScore   int     `json:"current_score"`
	BallsLeft      float64 `json:"balls_left"`
	WicketLeft     int     `json:"wicket_left"`
	CurrentRunRate float64 `json:"current_run_rate"`
	LastFive       int     `json:"last_five"`
}

// FeatureColumns lists the model columns in order
var FeatureColumns = []string{
	"batting_team",
	"bowling_team",
	"city",
	"current_score",
	"balls_left",
	"wicket_left",
	"current_run_rate",
	"last_five",
}

// NumericFeatures returns the numeric columns keyed by column name
func (f FeatureRow) NumericFeatures() map[string]float64 {
	return map[string]float64{
		"current_score":    float64(f.CurrentScore),
		"balls_left":       f.BallsLeft,
		"wicket_left":      float64(f.WicketLeft),
		"current_run_rate": f.CurrentRunRate,
		"last_five":        float64(f.LastFive),
	}
}

// CategoricalFeatures returns the categorical columns keyed by column name
func (f FeatureRow) CategoricalFeatures() map[string]string {
	return map[string]string{
		"batting_team": f.BattingTeam,
		"bowling_team": f.BowlingTeam,
		"city":         f.City,
	}
}

// Values returns the row in column order, as strings
func (f FeatureRow) Values() []string {
	return []string{
		f.BattingTeam,
		f.BowlingTeam,
		f.City,
		strconv.Itoa(f.CurrentScore),
		strconv.FormatFloat(f.BallsLeft, 'g', -1, 64),
		strconv.Itoa(f.WicketLeft),
		strconv.FormatFloat(f.CurrentRunRate, 'g', -1, 64),
		strconv.Itoa(f.LastFive),
	}
}

// CacheKey is a stable SHA256 of the canonical row encoding
func (f FeatureRow) CacheKey() string {
	h := sha256.New()
	h.Write([]byte(strings.Join(f.Values(), "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}

// Catalog holds the dropdown choices presented on the form
type Catalog struct {
	Teams  []string `json:"teams"`
	Cities []string `json:"cities"`
}
