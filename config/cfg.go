package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"
	"unicode"

	validator "github.com/go-playground/validator/v10"
	yaml "gopkg.in/yaml.v3"

	"github.com/rupor-github/gencfg"

	"ucc/common"
)

//go:embed config.yaml.tmpl
var ConfigTmpl []byte

type (
	EngineConfig struct {
		// table documents, merged in order, later files win
		Tables      []string `yaml:"tables" validate:"dive,required"`
		UsePreset   bool     `yaml:"use_preset"`
		PrefixChars string   `yaml:"prefix_chars"`
		Safelist    []string `yaml:"safelist" validate:"dive,required"`
		Strict      bool     `yaml:"strict"`
	}

	GeneratorConfig struct {
		Sources        []string            `yaml:"sources" validate:"dive,required"`
		Exclude        []string            `yaml:"exclude" validate:"dive,required"`
		ArchivePattern string              `yaml:"archive_pattern"`
		SourceFormat   common.SourceFormat `yaml:"source_format" validate:"gte=0"`
		Attributes     []string            `yaml:"attributes" validate:"dive,required"`
		Charset        string              `yaml:"charset"`
		MaxFileSize    int64               `yaml:"max_file_size" validate:"gte=0"`
		Output         string              `yaml:"output"`
		Format         common.OutputStyle  `yaml:"format" validate:"gte=0"`
		BaseStylesheet string              `yaml:"base_stylesheet" sanitize:"assure_file_access"`
		Breakpoints    map[string]int      `yaml:"breakpoints" validate:"dive,keys,required,endkeys,gte=0"`
		Debounce       time.Duration       `yaml:"debounce" validate:"gte=0"`
	}

	Config struct {
		Version   int             `yaml:"version" validate:"eq=1"`
		Engine    EngineConfig    `yaml:"engine"`
		Generator GeneratorConfig `yaml:"generator"`
		Logging   LoggingConfig   `yaml:"logging"`
		Reporting ReporterConfig  `yaml:"reporting"`
	}
)

var requiredOptions = []func(*gencfg.ProcessingOptions){}

// checkConfig performs cross field checks validator tags cannot express.
func checkConfig(sl validator.StructLevel) {
	cfg := sl.Current().Interface().(Config)

	if !cfg.Engine.UsePreset && len(cfg.Engine.Tables) == 0 {
		sl.ReportError(cfg.Engine.Tables, "Engine.Tables", "Tables", "tables_or_preset", "")
	}
	if strings.IndexFunc(cfg.Engine.PrefixChars, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == ':'
	}) >= 0 {
		sl.ReportError(cfg.Engine.PrefixChars, "Engine.PrefixChars", "PrefixChars", "prefix_chars", cfg.Engine.PrefixChars)
	}
	for name := range cfg.Generator.Breakpoints {
		if strings.ContainsAny(name, " \t\n:") {
			sl.ReportError(cfg.Generator.Breakpoints, "Generator.Breakpoints", "Breakpoints", "breakpoint_name", name)
		}
	}
}

func unmarshalConfig(data []byte, cfg *Config, process bool) (*Config, error) {
	// We want to use only fields we defined so we cannot use yaml.Unmarshal
	// directly here
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration data: %w", err)
	}
	if process {
		// sanitize and validate what has been loaded
		if err := gencfg.Sanitize(cfg); err != nil {
			return nil, err
		}
		if err := gencfg.Validate(cfg, gencfg.WithAdditionalChecks(checkConfig)); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// LoadConfiguration reads the configuration from the file at the given path,
// superimposes its values on top of expanded configuration template to provide
// sane defaults and performs validation.
func LoadConfiguration(path string, options ...func(*gencfg.ProcessingOptions)) (*Config, error) {
	haveFile := len(path) > 0

	data, err := gencfg.Process(ConfigTmpl, append(requiredOptions, options...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	cfg, err := unmarshalConfig(data, &Config{}, !haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration template: %w", err)
	}
	if !haveFile {
		return cfg, nil
	}

	// overwrite cfg values with values from the file
	data, err = os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg, err = unmarshalConfig(data, cfg, haveFile)
	if err != nil {
		return nil, fmt.Errorf("failed to process configuration file: %w", err)
	}
	return cfg, nil
}

// Prepare generates configuration file from template and returns it as a byte
// slice.
func Prepare() ([]byte, error) {
	return gencfg.Process(ConfigTmpl, requiredOptions...)
}

func Dump(cfg *Config) ([]byte, error) {
	data, err := yaml.Marshal(*cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config to yaml: %v", err)
	}
	return data, nil
}
