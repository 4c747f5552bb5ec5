package logic

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wicketline/score-predictor/internal/models"
)

var defaultDeriver = NewFeatureDeriver(NewCatalogService())

// DeriveFeatures validates a raw form against the built-in catalog and
// returns the model input row
func DeriveFeatures(form models.MatchForm) (models.FeatureRow, error) {
	return defaultDeriver.Derive(form)
}

// FeatureDeriver turns submitted form strings into a FeatureRow
type FeatureDeriver struct {
	catalog  CatalogService
	validate *validator.Validate
}

// NewFeatureDeriver registers the catalog-backed "team" and "city" rules
func NewFeatureDeriver(catalog CatalogService) *FeatureDeriver {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("team", func(fl validator.FieldLevel) bool {
		return catalog.IsTeam(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register team validation: %v", err))
	}
	if err := v.RegisterValidation("city", func(fl validator.FieldLevel) bool {
		return catalog.IsCity(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register city validation: %v", err))
	}

	return &FeatureDeriver{catalog: catalog, validate: v}
}

// Derive parses, validates and computes the derived features
func (d *FeatureDeriver) Derive(form models.MatchForm) (models.FeatureRow, error) {
	snap, err := d.Parse(form)
	if err != nil {
		return models.FeatureRow{}, err
	}
	return BuildFeatureRow(snap), nil
}

// Parse converts the raw strings and applies range and choice rules
func (d *FeatureDeriver) Parse(form models.MatchForm) (models.MatchSnapshot, error) {
	raw := []struct {
		field string
		value string
	}{
		{models.FieldCurrentScore, strings.TrimSpace(form.CurrentScore)},
		{models.FieldOvers, strings.TrimSpace(form.Overs)},
		{models.FieldWickets, strings.TrimSpace(form.Wickets)},
		{models.FieldLastFive, strings.TrimSpace(form.LastFive)},
	}

	// All four must be present before any parsing happens
	for _, r := range raw {
		if r.value == "" {
			return models.MatchSnapshot{}, &ValidationError{Field: r.field, Kind: ErrMissingField}
		}
	}

	snap := models.MatchSnapshot{
		BattingTeam: strings.TrimSpace(form.BattingTeam),
		BowlingTeam: strings.TrimSpace(form.BowlingTeam),
		City:        strings.TrimSpace(form.City),
	}

	var err error
	if snap.CurrentScore, err = parseInt(raw[0].field, raw[0].value); err != nil {
		return models.MatchSnapshot{}, err
	}
	if snap.Overs, err = parseFloat(raw[1].field, raw[1].value); err != nil {
		return models.MatchSnapshot{}, err
	}
	if snap.Wickets, err = parseInt(raw[2].field, raw[2].value); err != nil {
		return models.MatchSnapshot{}, err
	}
	if snap.LastFive, err = parseInt(raw[3].field, raw[3].value); err != nil {
		return models.MatchSnapshot{}, err
	}

	if err := d.validate.Struct(snap); err != nil {
		return models.MatchSnapshot{}, toValidationError(err)
	}

	return snap, nil
}

// BuildFeatureRow assembles the eight model columns from a valid snapshot
func BuildFeatureRow(s models.MatchSnapshot) models.FeatureRow {
	return models.FeatureRow{
		BattingTeam:    s.BattingTeam,
		BowlingTeam:    s.BowlingTeam,
		City:           s.City,
		CurrentScore:   s.CurrentScore,
		BallsLeft:      s.BallsLeft(),
		WicketLeft:     s.WicketsLeft(),
		CurrentRunRate: s.CurrentRunRate(),
		LastFive:       s.LastFive,
	}
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, &ValidationError{Field: field, Kind: ErrNotANumber, Detail: err.Error()}
	}
	return n, nil
}

// parseFloat accepts decimal notation only; hex floats, NaN and Inf are rejected
func parseFloat(field, value string) (float64, error) {
	lower := strings.ToLower(strings.TrimLeft(value, "+-"))
	if strings.HasPrefix(lower, "0x") {
		return 0, &ValidationError{Field: field, Kind: ErrNotANumber, Detail: fmt.Sprintf("%q is not a decimal number", value)}
	}
	n, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Kind: ErrNotANumber, Detail: err.Error()}
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, &ValidationError{Field: field, Kind: ErrNotANumber, Detail: fmt.Sprintf("%q is not a finite number", value)}
	}
	return n, nil
}

// toValidationError maps the first validator failure onto our error kinds
func toValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate snapshot: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "gte":
		return &ValidationError{Field: fe.Field(), Kind: ErrOutOfRange, Detail: fmt.Sprintf("must be at least %s", fe.Param())}
	case "lte":
		return &ValidationError{Field: fe.Field(), Kind: ErrOutOfRange, Detail: fmt.Sprintf("must be at most %s", fe.Param())}
	case "team":
		return &ValidationError{Field: fe.Field(), Kind: ErrInvalidChoice, Detail: fmt.Sprintf("%q is not a known team", fe.Value())}
	case "city":
		return &ValidationError{Field: fe.Field(), Kind: ErrInvalidChoice, Detail: fmt.Sprintf("%q is not a known city", fe.Value())}
	case "nefield":
		return &ValidationError{Field: fe.Field(), Kind: ErrInvalidChoice, Detail: "batting and bowling team must be different"}
	case "required":
		return &ValidationError{Field: fe.Field(), Kind: ErrInvalidChoice, Detail: "a selection is required"}
	default:
		return &ValidationError{Field: fe.Field(), Kind: ErrInvalidChoice, Detail: fe.Error()}
	}
}
