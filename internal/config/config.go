package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Selectors are the CSS selectors of the subtitle site's UI.
type Selectors struct {
	URLInput       string `toml:"url_input"`
	Submit         string `toml:"submit"`
	Results        string `toml:"results"`
	Title          string `toml:"title"`
	LanguageButton string `toml:"language_button"`
	SubtitleField  string `toml:"subtitle_field"`
}

// Site describes the third-party subtitle site and how long to wait on it.
type Site struct {
	RootURL          string    `toml:"root_url"`
	NavigateTimeout  Duration  `toml:"navigate_timeout"`
	InputTimeout     Duration  `toml:"input_timeout"`
	ResultsTimeout   Duration  `toml:"results_timeout"`
	LanguagesTimeout Duration  `toml:"languages_timeout"`
	DialogTimeout    Duration  `toml:"dialog_timeout"`
	SettleDelay      Duration  `toml:"settle_delay"`
	Selectors        Selectors `toml:"selectors"`
}

// Browser contains headless browser launch settings.
type Browser struct {
	Headless       bool     `toml:"headless"`
	ExecutablePath string   `toml:"executable_path"`
	Args           []string `toml:"args"`
}

// Batch contains orchestration settings.
type Batch struct {
	Pacing Duration `toml:"pacing"`
}

// Log contains logger settings.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Storage contains artifact output settings.
type Storage struct {
	DataDir            string `toml:"data_dir"`
	TranscriptLanguage bool   `toml:"transcript_language"`
}

// Config is the full application configuration.
type Config struct {
	Site    Site    `toml:"site"`
	Browser Browser `toml:"browser"`
	Batch   Batch   `toml:"batch"`
	Log     Log     `toml:"log"`
	Storage Storage `toml:"storage"`
}

// Duration is a time.Duration that reads TOML strings like "30s".
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(b)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(b), err)
	}
	*d = Duration(v)
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// D returns the value as a time.Duration.
func (d Duration) D() time.Duration { return time.Duration(d) }

// Default returns the configuration matching the live site.
func Default() Config {
	return Config{
		Site: Site{
			RootURL:          "https://downsub.com/",
			NavigateTimeout:  Duration(60 * time.Second),
			InputTimeout:     Duration(30 * time.Second),
			ResultsTimeout:   Duration(60 * time.Second),
			LanguagesTimeout: Duration(3 * time.Second),
			DialogTimeout:    Duration(10 * time.Second),
			Selectors: Selectors{
				URLInput:       `input[type="text"]`,
				Submit:         "button.rounded-lg",
				Results:        ".flex.flex-col.space-y-4",
				Title:          "h1.text-xl",
				LanguageButton: "button.bg-white",
				SubtitleField:  "textarea",
			},
		},
		Browser: Browser{
			Headless: true,
			Args: []string{
				"--disable-dev-shm-usage",
				"--no-sandbox",
				"--disable-setuid-sandbox",
			},
		},
		Batch:   Batch{Pacing: Duration(time.Second)},
		Log:     Log{Level: "info", Format: "text"},
		Storage: Storage{DataDir: "./data", TranscriptLanguage: true},
	}
}

// Load builds the configuration from defaults, an optional TOML file, a
// .env file and SUBTITLE_* environment variables, in that order.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v, ok := os.LookupEnv("SUBTITLE_SITE_URL"); ok {
		c.Site.RootURL = v
	}
	if v, ok := os.LookupEnv("SUBTITLE_DATA_DIR"); ok {
		c.Storage.DataDir = v
	}
	if v, ok := os.LookupEnv("SUBTITLE_BROWSER_PATH"); ok {
		c.Browser.ExecutablePath = v
	}
	if v, ok := os.LookupEnv("SUBTITLE_LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := os.LookupEnv("SUBTITLE_LOG_FORMAT"); ok {
		c.Log.Format = v
	}
	if v, ok := os.LookupEnv("SUBTITLE_HEADLESS"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SUBTITLE_HEADLESS: %w", err)
		}
		c.Browser.Headless = b
	}
	if v, ok := os.LookupEnv("SUBTITLE_PACING"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SUBTITLE_PACING: %w", err)
		}
		c.Batch.Pacing = Duration(d)
	}
	return nil
}

// Validate checks that required values are present and sane.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Site.RootURL) == "" {
		return errors.New("site.root_url must be set")
	}
	timeouts := []struct {
		name string
		d    Duration
	}{
		{"site.navigate_timeout", c.Site.NavigateTimeout},
		{"site.input_timeout", c.Site.InputTimeout},
		{"site.results_timeout", c.Site.ResultsTimeout},
		{"site.languages_timeout", c.Site.LanguagesTimeout},
		{"site.dialog_timeout", c.Site.DialogTimeout},
	}
	for _, t := range timeouts {
		if t.d <= 0 {
			return fmt.Errorf("%s must be positive", t.name)
		}
	}
	if c.Site.SettleDelay < 0 {
		return errors.New("site.settle_delay must not be negative")
	}
	if c.Batch.Pacing < 0 {
		return errors.New("batch.pacing must not be negative")
	}
	s := c.Site.Selectors
	selectors := []struct {
		name, value string
	}{
		{"url_input", s.URLInput},
		{"submit", s.Submit},
		{"results", s.Results},
		{"title", s.Title},
		{"language_button", s.LanguageButton},
		{"subtitle_field", s.SubtitleField},
	}
	for _, sel := range selectors {
		if strings.TrimSpace(sel.value) == "" {
			return fmt.Errorf("site.selectors.%s must be set", sel.name)
		}
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return errors.New("storage.data_dir must be set")
	}
	return nil
}
