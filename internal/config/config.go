// Package config provides configuration management for the Court Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	Factors    FactorsConfig    `mapstructure:"factors" validate:"required"`
	Analysis   AnalysisConfig   `mapstructure:"analysis" validate:"required"`
	Staking    StakingConfig    `mapstructure:"staking" validate:"required"`
	Classifier ClassifierConfig `mapstructure:"classifier" validate:"required"`
	Profiles   ProfilesConfig   `mapstructure:"profiles" validate:"required"`
	DataSource DataSourceConfig `mapstructure:"data_source" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
	Secrets    SecretsConfig    `mapstructure:"secrets"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// FactorsConfig represents factor computation tunables
type FactorsConfig struct {
	FormWindow           int     `mapstructure:"form_window" validate:"required,gt=0"`
	FormDecay            float64 `mapstructure:"form_decay" validate:"required,gt=0,lte=1"`
	SurfaceCareerWeight  float64 `mapstructure:"surface_career_weight" validate:"gte=0,lte=1"`
	SurfaceRecentWeight  float64 `mapstructure:"surface_recent_weight" validate:"gte=0,lte=1"`
	SurfaceRecentYears   int     `mapstructure:"surface_recent_years" validate:"required,gt=0"`
	SurfaceMinSample     int     `mapstructure:"surface_min_sample" validate:"required,gt=0"`
	RankingSteepness     float64 `mapstructure:"ranking_steepness" validate:"required,gt=0"`
	H2HSurfaceWeight     float64 `mapstructure:"h2h_surface_weight" validate:"gte=0,lte=1"`
	OptimalRestDays      int     `mapstructure:"optimal_rest_days" validate:"required,gt=0"`
	WorkloadDays         int     `mapstructure:"workload_days" validate:"required,gt=0"`
	WorkloadPenalty      float64 `mapstructure:"workload_penalty" validate:"gte=0,lte=1"`
	RecentLossDays       int     `mapstructure:"recent_loss_days" validate:"required,gt=0"`
	RecentLossPenalty    float64 `mapstructure:"recent_loss_penalty" validate:"gte=0,lte=1"`
	LongMatchMinutes     int     `mapstructure:"long_match_minutes" validate:"required,gt=0"`
	MomentumDays         int     `mapstructure:"momentum_days" validate:"required,gt=0"`
	MomentumPerWin       float64 `mapstructure:"momentum_per_win" validate:"gte=0,lte=1"`
	MomentumCap          float64 `mapstructure:"momentum_cap" validate:"gte=0,lte=1"`
	ActivityWindowDays   int     `mapstructure:"activity_window_days" validate:"required,gt=0"`
	MinPlayerSample      int     `mapstructure:"min_player_sample" validate:"required,gt=0"`
}

// AnalysisConfig represents probability aggregation configuration
type AnalysisConfig struct {
	Steepness            float64 `mapstructure:"steepness" validate:"required,gt=0"`
	Shrinkage            float64 `mapstructure:"shrinkage" validate:"gte=0,lt=1"`
	AsymmetricShrinkage  bool    `mapstructure:"asymmetric_shrinkage"`
	ModelWeight          float64 `mapstructure:"model_weight" validate:"required,gt=0,lte=1"`
	MarketWeight         float64 `mapstructure:"market_weight" validate:"gte=0,lt=1"`
	ExtremeRankAdvantage float64 `mapstructure:"extreme_rank_advantage" validate:"gte=0,lte=1"`
	RankBlendAgree       float64 `mapstructure:"rank_blend_agree" validate:"gte=0,lte=1"`
	RankBlendContradict  float64 `mapstructure:"rank_blend_contradict" validate:"gte=0,lte=1"`
}

// StakingTierConfig represents one disagreement tier. A max_ratio of zero
// or below marks the unbounded final tier.
type StakingTierConfig struct {
	MaxRatio   float64 `mapstructure:"max_ratio"`
	Multiplier float64 `mapstructure:"multiplier" validate:"required,gt=0,lte=1"`
}

// StakingConfig represents stake sizing configuration
type StakingConfig struct {
	KellyFraction        float64             `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MinEdge              float64             `mapstructure:"min_edge" validate:"gte=0,lt=1"`
	Tiers                []StakingTierConfig `mapstructure:"tiers" validate:"required,min=1,dive"`
	NoDataMultiplier     float64             `mapstructure:"no_data_multiplier" validate:"required,gt=0,lte=1"`
	ActivityThreshold    float64             `mapstructure:"activity_threshold" validate:"gte=0,lte=100"`
	MaxActivityReduction float64             `mapstructure:"max_activity_reduction" validate:"gte=0,lt=1"`
	UnitScale            float64             `mapstructure:"unit_scale" validate:"required,gt=0"`
	MinUnit              float64             `mapstructure:"min_unit" validate:"required,gt=0"`
	MaxUnit              float64             `mapstructure:"max_unit" validate:"required,gt=0"`
	Increment            float64             `mapstructure:"increment" validate:"required,gt=0"`
}

// ClassifierConfig represents model tag and fade configuration
type ClassifierConfig struct {
	FavoritesMinProbability float64 `mapstructure:"favorites_min_probability" validate:"gte=0,lte=1"`
	ModerateEdgeMin         float64 `mapstructure:"moderate_edge_min" validate:"gte=0,lte=1"`
	ModerateEdgeMax         float64 `mapstructure:"moderate_edge_max" validate:"gte=0,lte=1"`
	GrindEdgeMin            float64 `mapstructure:"grind_edge_min" validate:"gte=0,lte=1"`
	GrindEdgeMax            float64 `mapstructure:"grind_edge_max" validate:"gte=0,lte=1"`
	GrindMaxOdds            float64 `mapstructure:"grind_max_odds" validate:"gt=1"`
	Fade                    FadeConfig `mapstructure:"fade"`
}

// FadeConfig represents the contrarian fade variant configuration
type FadeConfig struct {
	Enabled         bool    `mapstructure:"enabled"`
	Mode            string  `mapstructure:"mode" validate:"omitempty,oneof=augment replace"`
	MinOpponentOdds float64 `mapstructure:"min_opponent_odds" validate:"gte=0"`
	MaxOpponentOdds float64 `mapstructure:"max_opponent_odds" validate:"gte=0"`
}

// ProfilesConfig represents the named factor weight profiles
type ProfilesConfig struct {
	Active  string                        `mapstructure:"active" validate:"required"`
	Version string                        `mapstructure:"version" validate:"required"`
	Weights map[string]map[string]float64 `mapstructure:"weights" validate:"required,min=1"`
}

// DataSourceConfig represents upstream feed configuration
type DataSourceConfig struct {
	HistoryURL        string  `mapstructure:"history_url" validate:"required,url"`
	HistoryAPIKey     string  `mapstructure:"history_api_key"`
	OddsURL           string  `mapstructure:"odds_url" validate:"required,url"`
	OddsAPIKey        string  `mapstructure:"odds_api_key"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst             int     `mapstructure:"burst" validate:"required,gt=0"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryMax          int     `mapstructure:"retry_max" validate:"gte=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents recurring slate analysis configuration
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SlateSchedule  string `mapstructure:"slate_schedule" validate:"required"`
	MaxConcurrency int    `mapstructure:"max_concurrency" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SecretsConfig represents AWS Secrets Manager configuration
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_with=Enabled"`
	SecretName string `mapstructure:"secret_name"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ActiveWeights returns the weight map selected by profiles.active.
func (c *Config) ActiveWeights() (map[string]float64, error) {
	weights, ok := c.Profiles.Weights[c.Profiles.Active]
	if !ok {
		return nil, fmt.Errorf("active profile %q not defined under profiles.weights", c.Profiles.Active)
	}
	return weights, nil
}
