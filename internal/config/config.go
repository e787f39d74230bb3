package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"gopkg.in/yaml.v3"

	"github.com/KNSaw/ProjekUTSML-A-CatBoost/internal/domain"
)

// DefaultModels is the two-model setup served when neither MODELS nor
// MODEL_MANIFEST is set.
const DefaultModels = "Gradient Boosting=models/best_gradient_boosting.json,Random Forest=models/best_random_forest.json"

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Models are loaded once at startup, in this order.
	Models []domain.ModelSpec

	// Prediction event publishing.
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	models, err := loadModels()
	if err != nil {
		return nil, err
	}

	var brokers []string
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		brokers = sharedcfg.ParseBrokers(v)
	}
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
		Models:          models,
		KafkaEnabled:    kafkaEnabled,
		KafkaBrokers:    brokers,
		KafkaTopic:      sharedcfg.EnvOrDefault("KAFKA_PREDICTION_TOPIC", "earthquake-alert-predictions"),
	}

	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_PREDICTION_TOPIC is required")
	}

	return cfg, nil
}

func loadModels() ([]domain.ModelSpec, error) {
	var (
		specs []domain.ModelSpec
		err   error
	)
	if path := os.Getenv("MODEL_MANIFEST"); path != "" {
		specs, err = ReadManifest(path)
		if err != nil {
			return nil, fmt.Errorf("invalid MODEL_MANIFEST: %w", err)
		}
	} else {
		specs, err = ParseModels(sharedcfg.EnvOrDefault("MODELS", DefaultModels))
		if err != nil {
			return nil, fmt.Errorf("invalid MODELS: %w", err)
		}
	}
	return specs, nil
}

// ParseModels parses a comma-separated list of "Name=path" entries. An entry
// without a name is named after its file.
func ParseModels(s string) ([]domain.ModelSpec, error) {
	var specs []domain.ModelSpec
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, path, ok := strings.Cut(entry, "=")
		if !ok {
			path = name
			name = modelNameFromPath(path)
		}
		specs = append(specs, domain.ModelSpec{
			Name: strings.TrimSpace(name),
			Path: strings.TrimSpace(path),
		})
	}
	return specs, validateModels(specs)
}

type manifest struct {
	Models []domain.ModelSpec `yaml:"models"`
}

// ReadManifest reads a YAML model manifest. Relative artifact paths are
// resolved against the manifest's directory.
func ReadManifest(path string) ([]domain.ModelSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	dir := filepath.Dir(path)
	for i := range m.Models {
		if m.Models[i].Name == "" {
			m.Models[i].Name = modelNameFromPath(m.Models[i].Path)
		}
		if m.Models[i].Path != "" && !filepath.IsAbs(m.Models[i].Path) {
			m.Models[i].Path = filepath.Join(dir, m.Models[i].Path)
		}
	}
	return m.Models, validateModels(m.Models)
}

// WriteManifest writes specs as a YAML model manifest.
func WriteManifest(path string, specs []domain.ModelSpec) error {
	data, err := yaml.Marshal(manifest{Models: specs})
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func validateModels(specs []domain.ModelSpec) error {
	if len(specs) == 0 {
		return errors.New("at least one model is required")
	}
	seen := make(map[string]bool, len(specs))
	for _, s := range specs {
		if s.Path == "" {
			return fmt.Errorf("model %q has no path", s.Name)
		}
		if s.Name == "" {
			return fmt.Errorf("model at %q has no name", s.Path)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate model name %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// modelNameFromPath turns "models/best_random_forest.json.gz" into "best_random_forest".
func modelNameFromPath(path string) string {
	base := filepath.Base(strings.TrimSuffix(path, ".gz"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}
