package domain

import "time"

// ScoreWeights are the relative weights of the confidence sub-scores.
// All weights must be positive.
type ScoreWeights struct {
	CategoryAffinity       float64
	ValueCompatibility     float64
	ConditionCompatibility float64
	GeoProximity           float64
	Recency                float64
}

// Sum returns the total weight.
func (w ScoreWeights) Sum() float64 {
	return w.CategoryAffinity + w.ValueCompatibility + w.ConditionCompatibility +
		w.GeoProximity + w.Recency
}

// DefaultScoreWeights returns the weights used when none are configured.
func DefaultScoreWeights() ScoreWeights {
	return ScoreWeights{
		CategoryAffinity:       0.35,
		ValueCompatibility:     0.25,
		ConditionCompatibility: 0.15,
		GeoProximity:           0.15,
		Recency:                0.10,
	}
}

// MatchingConfig parameterizes one discovery run. It is passed by value into
// every run so results are reproducible from (snapshot, config).
type MatchingConfig struct {
	Weights         ScoreWeights
	RecencyHalfLife time.Duration
	GeoRadiusKm     float64
	// ValueTolerance widens both value ranges by this fraction for the
	// discovery pre-filter only; scoring uses the declared ranges.
	ValueTolerance           float64
	TopK                     int
	MaxActiveListingsPerUser int
	MaxOpportunitiesPerItem  int
	EnableTwoWay             bool
	Partitions               int
}

// DefaultMatchingConfig returns production defaults.
func DefaultMatchingConfig() MatchingConfig {
	return MatchingConfig{
		Weights:                  DefaultScoreWeights(),
		RecencyHalfLife:          14 * 24 * time.Hour,
		GeoRadiusKm:              50,
		ValueTolerance:           0.25,
		TopK:                     20,
		MaxActiveListingsPerUser: 50,
		MaxOpportunitiesPerItem:  3,
		EnableTwoWay:             true,
		Partitions:               4,
	}
}

// Validate checks the matching configuration.
func (c MatchingConfig) Validate() error {
	var errs []FieldError
	w := c.Weights
	weights := []struct {
		field string
		value float64
	}{
		{"weights.category_affinity", w.CategoryAffinity},
		{"weights.value_compatibility", w.ValueCompatibility},
		{"weights.condition_compatibility", w.ConditionCompatibility},
		{"weights.geo_proximity", w.GeoProximity},
		{"weights.recency", w.Recency},
	}
	for _, wt := range weights {
		if !(wt.value > 0) {
			errs = append(errs, FieldError{Field: wt.field, Message: "must be positive"})
		}
	}
	if c.RecencyHalfLife <= 0 {
		errs = append(errs, FieldError{Field: "recency_half_life", Message: "must be positive"})
	}
	if c.GeoRadiusKm <= 0 {
		errs = append(errs, FieldError{Field: "geo_radius_km", Message: "must be positive"})
	}
	if c.ValueTolerance < 0 {
		errs = append(errs, FieldError{Field: "value_tolerance", Message: "must not be negative"})
	}
	if c.TopK < 1 {
		errs = append(errs, FieldError{Field: "top_k", Message: "must be at least 1"})
	}
	if c.MaxActiveListingsPerUser < 1 {
		errs = append(errs, FieldError{Field: "max_active_listings_per_user", Message: "must be at least 1"})
	}
	if c.MaxOpportunitiesPerItem < 1 {
		errs = append(errs, FieldError{Field: "max_opportunities_per_item", Message: "must be at least 1"})
	}
	if c.Partitions < 1 {
		errs = append(errs, FieldError{Field: "partitions", Message: "must be at least 1"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}

// LifecycleConfig parameterizes opportunity persistence and maintenance.
type LifecycleConfig struct {
	TTL            time.Duration
	Cooldown       time.Duration
	ListLimit      int
	DismissScope   DismissScope
	WriteRetries   int
	RetryBaseDelay time.Duration
}

// DefaultLifecycleConfig returns production defaults.
func DefaultLifecycleConfig() LifecycleConfig {
	return LifecycleConfig{
		TTL:            7 * 24 * time.Hour,
		Cooldown:       24 * time.Hour,
		ListLimit:      20,
		DismissScope:   DismissScopeParticipant,
		WriteRetries:   3,
		RetryBaseDelay: 100 * time.Millisecond,
	}
}

// Validate checks the lifecycle configuration.
func (c LifecycleConfig) Validate() error {
	var errs []FieldError
	if c.TTL <= 0 {
		errs = append(errs, FieldError{Field: "ttl", Message: "must be positive"})
	}
	if c.Cooldown < 0 {
		errs = append(errs, FieldError{Field: "cooldown", Message: "must not be negative"})
	}
	if c.ListLimit < 1 {
		errs = append(errs, FieldError{Field: "list_limit", Message: "must be at least 1"})
	}
	if !c.DismissScope.IsValid() {
		errs = append(errs, FieldError{Field: "dismiss_scope", Message: "must be participant or all"})
	}
	if c.WriteRetries < 0 {
		errs = append(errs, FieldError{Field: "write_retries", Message: "must not be negative"})
	}
	if c.RetryBaseDelay <= 0 {
		errs = append(errs, FieldError{Field: "retry_base_delay", Message: "must be positive"})
	}
	if len(errs) > 0 {
		return NewValidationErrors(errs)
	}
	return nil
}
