// Package config loads runtime configuration the way duclm31099-bookstore's
// internal/config.Load does — getEnv/getEnvBool helpers over
// os.Getenv, with precedence YAML file < environment variable. godotenv
// optionally seeds the process environment from a local .env file before any
// of this runs.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// ServiceEnv names the per-dependency sandbox/production selector exposed as
// PAYOS_<SERVICE>_ENV.
type ServiceEnv string

const (
	ServiceEnvSandbox    ServiceEnv = "sandbox"
	ServiceEnvProduction ServiceEnv = "production"
)

// Config is the fully resolved runtime configuration.
type Config struct {
	Environment string // PAYOS_ENVIRONMENT: development|staging|production
	RuntimeMode string // PAYOS_RUNTIME_MODE, must equal "production" to allow Environment=production
	APIURL      string // PAYOS_API_URL
	ListenAddr  string // PAYOS_LISTEN_ADDR

	Services ServiceConfig
	Features FeatureFlags
}

// ServiceConfig holds the sandbox/production selector and API key for each
// external dependency the platform fronts.
type ServiceConfig struct {
	Circle      ServiceCredential
	Blockchain  ServiceCredential
	X402        ServiceCredential
	Stripe      ServiceCredential
	Compliance  ServiceCredential
	FX          ServiceCredential
}

type ServiceCredential struct {
	Env    ServiceEnv
	APIKey string
}

// FeatureFlags mirrors the PAYOS_FEATURE_<NAME> switches gating optional
// behavior. Unset flags default false.
type FeatureFlags struct {
	BatchProcessing     bool
	AP2Mandates         bool
	ACPCheckouts        bool
	X402Facilitator     bool
	StreamSimulation    bool
	ContextAggregation  bool
	CapabilitiesCache   bool
	WebhookIngestion    bool
	MCPServer           bool
	ScenarioRunner      bool
	CircuitBreaker      bool
	VarianceDetection   bool
}

// overlay is the optional static YAML document layered under environment
// variables, certenIO's validator-network-config pattern.
type overlay struct {
	Environment string            `yaml:"environment"`
	APIURL      string            `yaml:"api_url"`
	ListenAddr  string            `yaml:"listen_addr"`
	Features    map[string]bool   `yaml:"features"`
	Services    map[string]string `yaml:"service_env"` // service name -> sandbox|production
}

// Load resolves configuration from an optional YAML file at yamlPath (skipped
// if empty or missing), then overlays environment variables, then validates.
// A local .env file, if present, is loaded into the process environment first
// via godotenv — it is not an error for .env to be absent.
func Load(yamlPath string) (*Config, error) {
	_ = godotenv.Load()

	var ov overlay
	if yamlPath != "" {
		if b, err := os.ReadFile(yamlPath); err == nil {
			if err := yaml.Unmarshal(b, &ov); err != nil {
				return nil, fmt.Errorf("parsing config overlay %s: %w", yamlPath, err)
			}
		}
	}

	cfg := &Config{
		Environment: getEnv("PAYOS_ENVIRONMENT", firstNonEmpty(ov.Environment, "development")),
		RuntimeMode: getEnv("PAYOS_RUNTIME_MODE", ""),
		APIURL:      getEnv("PAYOS_API_URL", firstNonEmpty(ov.APIURL, "http://localhost:8080")),
		ListenAddr:  getEnv("PAYOS_LISTEN_ADDR", firstNonEmpty(ov.ListenAddr, ":8080")),
		Services: ServiceConfig{
			Circle:     loadService("CIRCLE", ov),
			Blockchain: loadService("BLOCKCHAIN", ov),
			X402:       loadService("X402", ov),
			Stripe:     loadService("STRIPE", ov),
			Compliance: loadService("COMPLIANCE", ov),
			FX:         loadService("FX", ov),
		},
		Features: FeatureFlags{
			BatchProcessing:    getFeature("BATCH_PROCESSING", ov),
			AP2Mandates:        getFeature("AP2_MANDATES", ov),
			ACPCheckouts:       getFeature("ACP_CHECKOUTS", ov),
			X402Facilitator:    getFeature("X402_FACILITATOR", ov),
			StreamSimulation:   getFeature("STREAM_SIMULATION", ov),
			ContextAggregation: getFeature("CONTEXT_AGGREGATION", ov),
			CapabilitiesCache:  getFeature("CAPABILITIES_CACHE", ov),
			WebhookIngestion:   getFeature("WEBHOOK_INGESTION", ov),
			MCPServer:          getFeature("MCP_SERVER", ov),
			ScenarioRunner:     getFeature("SCENARIO_RUNNER", ov),
			CircuitBreaker:     getFeature("CIRCUIT_BREAKER", ov),
			VarianceDetection:  getFeature("VARIANCE_DETECTION", ov),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate refuses to boot into production configuration without the
// explicit runtime-mode acknowledgement, per the platform's exit-code
// contract (main exits 1 on a Validate error).
func (c *Config) Validate() error {
	if c.Environment == "production" && c.RuntimeMode != "production" {
		return fmt.Errorf("PAYOS_ENVIRONMENT=production requires PAYOS_RUNTIME_MODE=production")
	}
	return nil
}

func loadService(name string, ov overlay) ServiceCredential {
	def := ServiceEnvSandbox
	if v, ok := ov.Services[strings.ToLower(name)]; ok && v != "" {
		def = ServiceEnv(v)
	}
	env := ServiceEnv(getEnv("PAYOS_"+name+"_ENV", string(def)))
	key := getEnv("PAYOS_"+name+"_API_KEY", "")
	return ServiceCredential{Env: env, APIKey: key}
}

func getFeature(name string, ov overlay) bool {
	if v, ok := ov.Features[strings.ToLower(name)]; ok {
		if raw := os.Getenv("PAYOS_FEATURE_" + name); raw == "" {
			return v
		}
	}
	return getEnvBool("PAYOS_FEATURE_"+name, ov.Features[strings.ToLower(name)])
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultValue
	}
	return b
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
