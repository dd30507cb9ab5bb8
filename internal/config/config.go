package config

import "time"

// Config is the root cookr configuration.
type Config struct {
	Pipeline   PipelineConfig   `yaml:"pipeline"`
	Rules      RulesConfig      `yaml:"rules"`
	Contentful ContentfulConfig `yaml:"contentful"`
	Log        LogConfig        `yaml:"log"`
	Watch      WatchConfig      `yaml:"watch"`
}

// PipelineConfig holds the processing toggles. Scores are on a 0..100 scale.
//
// Fields whose zero value is meaningful (false toggles, a 0 score) carry no
// env-default tag: cleanenv would overwrite an explicit zero from the file.
// Their defaults are seeded by defaults() before decoding.
type PipelineConfig struct {
	MergeSimilar       bool   `yaml:"merge_similar"        env:"COOKR_MERGE_SIMILAR"`
	MergeMaxScore      int    `yaml:"merge_max_score"      env:"COOKR_MERGE_MAX_SCORE"`
	Categorise         bool   `yaml:"categorise"           env:"COOKR_CATEGORISE"`
	CategoriseMaxScore int    `yaml:"categorise_max_score" env:"COOKR_CATEGORISE_MAX_SCORE"`
	ShowMerged         bool   `yaml:"show_merged"          env:"COOKR_SHOW_MERGED"`
	UnknownCategory    string `yaml:"unknown_category"     env:"COOKR_UNKNOWN_CATEGORY"     env-default:"Nieznane"`
}

// RulesConfig selects where matching rules come from.
type RulesConfig struct {
	Source string `yaml:"source" env:"COOKR_RULES_SOURCE" env-default:"auto"`
	File   string `yaml:"file"   env:"COOKR_RULES_FILE"`
}

// ContentfulConfig holds Contentful Delivery API settings.
type ContentfulConfig struct {
	SpaceID     string        `yaml:"space_id"     env:"CONTENTFUL_SPACE_ID"`
	AccessToken string        `yaml:"access_token" env:"CONTENTFUL_ACCESS_TOKEN"`
	Environment string        `yaml:"environment"  env:"CONTENTFUL_ENVIRONMENT"  env-default:"master"`
	Locale      string        `yaml:"locale"       env:"CONTENTFUL_LOCALE"       env-default:"pl"`
	ContentType string        `yaml:"content_type" env:"CONTENTFUL_CONTENT_TYPE" env-default:"ingredientCategoryMatchingRule"`
	BaseURL     string        `yaml:"base_url"     env:"CONTENTFUL_BASE_URL"     env-default:"https://cdn.contentful.com"`
	Timeout     time.Duration `yaml:"timeout"      env:"CONTENTFUL_TIMEOUT"      env-default:"15s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"COOKR_LOG_LEVEL"  env-default:"warn"`
	Format string `yaml:"format" env:"COOKR_LOG_FORMAT" env-default:"text"`
}

// WatchConfig holds settings for the interactive commands.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce" env:"COOKR_DEBOUNCE"`
}

func defaults() Config {
	return Config{
		Pipeline: PipelineConfig{
			MergeSimilar:       true,
			MergeMaxScore:      20,
			Categorise:         true,
			CategoriseMaxScore: 20,
			ShowMerged:         true,
		},
		Watch: WatchConfig{Debounce: 500 * time.Millisecond},
	}
}
