package factors

// Config holds every tunable constant of the factor library. Values are
// threaded in explicitly rather than read from package state so parallel
// batch analysis and backtests stay reproducible.
type Config struct {
	// Form
	FormWindow int     `mapstructure:"form_window" validate:"required,gt=0"`
	FormDecay  float64 `mapstructure:"form_decay" validate:"required,gt=0,lt=1"`

	// Surface
	SurfaceCareerWeight float64 `mapstructure:"surface_career_weight" validate:"gte=0,lte=1"`
	SurfaceRecentWeight float64 `mapstructure:"surface_recent_weight" validate:"gte=0,lte=1"`
	SurfaceRecentYears  int     `mapstructure:"surface_recent_years" validate:"required,gt=0"`
	SurfaceMinSample    int     `mapstructure:"surface_min_sample" validate:"required,gt=0"`

	// Ranking
	RankingSteepness float64 `mapstructure:"ranking_steepness" validate:"required,gt=0"`

	// Head-to-head
	HeadToHeadSurfaceWeight float64 `mapstructure:"head_to_head_surface_weight" validate:"gte=0,lte=1"`

	// Fatigue
	OptimalRestDays int     `mapstructure:"optimal_rest_days" validate:"required,gt=0"`
	WorkloadDays    int     `mapstructure:"workload_days" validate:"required,gt=0"`
	WorkloadPenalty float64 `mapstructure:"workload_penalty" validate:"gte=0"`

	// Recent loss
	RecentLossDays    int     `mapstructure:"recent_loss_days" validate:"required,gt=0"`
	RecentLossPenalty float64 `mapstructure:"recent_loss_penalty" validate:"gte=0,lte=1"`
	LongMatchMinutes  int     `mapstructure:"long_match_minutes" validate:"required,gt=0"`

	// Momentum
	MomentumDays   int     `mapstructure:"momentum_days" validate:"required,gt=0"`
	MomentumPerWin float64 `mapstructure:"momentum_per_win" validate:"gte=0"`
	MomentumCap    float64 `mapstructure:"momentum_cap" validate:"gte=0,lte=1"`

	// Activity
	ActivityWindowDays int `mapstructure:"activity_window_days" validate:"required,gt=0"`

	// MinPlayerSample is the minimum number of prior matches a player
	// needs before the model treats them as data-backed.
	MinPlayerSample int `mapstructure:"min_player_sample" validate:"required,gt=0"`
}

// DefaultConfig returns the documented defaults
func DefaultConfig() Config {
	return Config{
		FormWindow:              10,
		FormDecay:               0.9,
		SurfaceCareerWeight:     0.4,
		SurfaceRecentWeight:     0.6,
		SurfaceRecentYears:      2,
		SurfaceMinSample:        20,
		RankingSteepness:        6.0,
		HeadToHeadSurfaceWeight: 0.25,
		OptimalRestDays:         3,
		WorkloadDays:            14,
		WorkloadPenalty:         0.05,
		RecentLossDays:          3,
		RecentLossPenalty:       0.15,
		LongMatchMinutes:        150,
		MomentumDays:            21,
		MomentumPerWin:          0.05,
		MomentumCap:             0.25,
		ActivityWindowDays:      90,
		MinPlayerSample:         5,
	}
}
