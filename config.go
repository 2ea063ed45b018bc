package pdfnodes

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Tokenizer names accepted in Config.Tokenizer.
const (
	TokenizerEstimate = "estimate"
	TokenizerTiktoken = "tiktoken"
)

// Config controls extraction and node construction.
type Config struct {
	// Node holds the size thresholds and height margin used for every node.
	Node NodeConfig `yaml:"node"`

	// DetectTables enables ruled table detection (default: true)
	DetectTables bool `yaml:"detect_tables"`

	// TableSettings configures table detection (default: DefaultTableSettings())
	TableSettings TableSettings `yaml:"tables"`

	// DetectColumns splits pages into columns before grouping lines into
	// blocks, so side-by-side text is not merged (default: true)
	DetectColumns bool `yaml:"detect_columns"`

	// EnableMetricsLogging logs a per-document summary at info level (default: false)
	EnableMetricsLogging bool `yaml:"enable_metrics_logging"`

	// Tokenizer selects the token counter: "estimate" or "tiktoken" (default: "estimate")
	Tokenizer string `yaml:"tokenizer"`

	// TiktokenEncoding is the BPE encoding used by the tiktoken tokenizer
	TiktokenEncoding string `yaml:"tiktoken_encoding"`

	// Workers bounds concurrent documents in ParseFiles (default: 4)
	Workers int `yaml:"workers"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Node:                 DefaultNodeConfig(),
		DetectTables:         true,
		TableSettings:        DefaultTableSettings(),
		DetectColumns:        true,
		EnableMetricsLogging: false,
		Tokenizer:            TokenizerEstimate,
		TiktokenEncoding:     DefaultTiktokenEncoding,
		Workers:              4,
	}
}

// LoadConfig reads a YAML file and applies it on top of DefaultConfig.
// Keys missing from the file keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, errors.Wrapf(err, "failed to read config %s", path)
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return config, errors.Wrapf(err, "failed to parse config %s", path)
	}

	if err := config.Validate(); err != nil {
		return config, errors.Wrapf(err, "invalid config %s", path)
	}

	return config, nil
}

// Validate checks that the thresholds are consistent.
func (c Config) Validate() error {
	if c.Node.StubTokens < 0 || c.Node.LowerTokens < 0 || c.Node.UpperTokens < 0 {
		return errors.New("token limits must not be negative")
	}
	if c.Node.LowerTokens > c.Node.UpperTokens {
		return errors.Errorf("lower token limit %d exceeds upper limit %d", c.Node.LowerTokens, c.Node.UpperTokens)
	}
	if c.Node.HeightMargin < 0 {
		return errors.New("height margin must not be negative")
	}
	switch c.Tokenizer {
	case "", TokenizerEstimate, TokenizerTiktoken:
	default:
		return errors.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
	if c.Workers < 0 {
		return errors.New("workers must not be negative")
	}
	return nil
}

// NewTokenizer returns the tokenizer named by the config.
func (c Config) NewTokenizer() (Tokenizer, error) {
	switch c.Tokenizer {
	case "", TokenizerEstimate:
		return WordEstimateTokenizer{}, nil
	case TokenizerTiktoken:
		t, err := NewTiktokenTokenizer(c.TiktokenEncoding)
		if err != nil {
			return nil, err
		}
		return t, nil
	default:
		return nil, errors.Errorf("unknown tokenizer %q", c.Tokenizer)
	}
}
