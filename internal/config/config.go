// Package config handles configuration loading for a protocol entity.
//
// Configuration is loaded from a YAML file with support for environment
// variable expansion (${VAR} or $VAR syntax). This allows key paths and
// peer locations to be injected at runtime.
//
// # Example Configuration
//
//	entity:
//	  entityId: https://sp.example.com/metadata
//	  keyFile: ${KEY_DIR}/sp.key
//	  certFile: ${KEY_DIR}/sp.crt
//
//	verification:
//	  requireSignature: true
//	  acceptedSkew: 2m
//	  replayWindow: 10m
//	  destinationPolicy: strict
//
//	endpoints:
//	  - service: single_logout_service
//	    binding: redirect
//	    urls: ["https://sp.example.com/slo"]
//
//	peers:
//	  - entityId: https://idp.example.com/metadata
//	    certFile: ${KEY_DIR}/idp.crt
//	    endpoints:
//	      - service: single_sign_on_service
//	        binding: redirect
//	        urls: ["https://idp.example.com/sso"]
//
// See [Load] for loading configuration from a file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sirosfoundation/go-saml2/pkg/metadata"
	"github.com/sirosfoundation/go-saml2/pkg/saml"
	"github.com/sirosfoundation/go-saml2/pkg/verify"
)

// Config is the root configuration structure
type Config struct {
	Entity       EntityConfig       `yaml:"entity"`
	Verification VerificationConfig `yaml:"verification"`
	Endpoints    []EndpointConfig   `yaml:"endpoints"`
	Peers        []PeerConfig       `yaml:"peers"`
}

// EntityConfig identifies this entity and its key material
type EntityConfig struct {
	EntityID string `yaml:"entityId"`
	// KeyFile and CertFile point at PEM files. Both empty is valid for
	// an entity that never signs.
	KeyFile  string `yaml:"keyFile"`
	CertFile string `yaml:"certFile"`
}

// VerificationConfig controls the inbound verification pipeline
type VerificationConfig struct {
	RequireSignature bool `yaml:"requireSignature"`
	// AcceptedSkew left unset means strict freshness checking
	AcceptedSkew time.Duration `yaml:"acceptedSkew"`
	ReplayWindow time.Duration `yaml:"replayWindow"`
	// DestinationPolicy is "lenient" or "strict"
	DestinationPolicy string `yaml:"destinationPolicy"`
}

// EndpointConfig declares the endpoints of one (service, binding) pair
type EndpointConfig struct {
	Service string   `yaml:"service"`
	Binding string   `yaml:"binding"`
	URLs    []string `yaml:"urls"`
}

// PeerConfig describes one known peer
type PeerConfig struct {
	EntityID  string           `yaml:"entityId"`
	CertFile  string           `yaml:"certFile"`
	Endpoints []EndpointConfig `yaml:"endpoints"`
}

// bindings maps the YAML shorthand to the binding URNs. The full URN is
// also accepted.
var bindings = map[string]saml.Binding{
	"redirect": saml.BindingHTTPRedirect,
	"post":     saml.BindingHTTPPost,
	"soap":     saml.BindingSOAP,
}

var services = map[string]metadata.ServiceRole{
	string(metadata.RoleSingleSignOn):       metadata.RoleSingleSignOn,
	string(metadata.RoleSingleLogout):       metadata.RoleSingleLogout,
	string(metadata.RoleAssertionConsumer):  metadata.RoleAssertionConsumer,
	string(metadata.RoleAttributeService):   metadata.RoleAttributeService,
	string(metadata.RoleAttributeConsuming): metadata.RoleAttributeConsuming,
}

// ParseBinding resolves a configured binding name to its URN
func ParseBinding(name string) (saml.Binding, error) {
	if b, ok := bindings[name]; ok {
		return b, nil
	}
	for _, b := range bindings {
		if string(b) == name {
			return b, nil
		}
	}
	return "", fmt.Errorf("unknown binding %q", name)
}

// ParseService resolves a configured service name to its role
func ParseService(name string) (metadata.ServiceRole, error) {
	if role, ok := services[name]; ok {
		return role, nil
	}
	return "", fmt.Errorf("unknown service %q", name)
}

// DestinationPolicy resolves the configured policy name
func (c *VerificationConfig) Policy() (verify.DestinationPolicy, error) {
	switch c.DestinationPolicy {
	case "lenient":
		return verify.DestinationLenient, nil
	case "strict":
		return verify.DestinationStrict, nil
	default:
		return 0, fmt.Errorf("verification.destinationPolicy must be 'lenient' or 'strict', got %q", c.DestinationPolicy)
	}
}

// Load reads configuration from a YAML file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse reads configuration from YAML bytes
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Verification.DestinationPolicy == "" {
		c.Verification.DestinationPolicy = "lenient"
	}
}

func (c *Config) validate() error {
	if c.Entity.EntityID == "" {
		return fmt.Errorf("entity.entityId is required")
	}
	if (c.Entity.KeyFile == "") != (c.Entity.CertFile == "") {
		return fmt.Errorf("entity.keyFile and entity.certFile must be set together")
	}
	if _, err := c.Verification.Policy(); err != nil {
		return err
	}

	if err := validateEndpoints(c.Endpoints); err != nil {
		return err
	}
	for _, peer := range c.Peers {
		if peer.EntityID == "" {
			return fmt.Errorf("peers[].entityId is required")
		}
		if err := validateEndpoints(peer.Endpoints); err != nil {
			return fmt.Errorf("peer %s: %w", peer.EntityID, err)
		}
	}
	return nil
}

func validateEndpoints(endpoints []EndpointConfig) error {
	for _, ep := range endpoints {
		if _, err := ParseService(ep.Service); err != nil {
			return err
		}
		if _, err := ParseBinding(ep.Binding); err != nil {
			return err
		}
		if len(ep.URLs) == 0 {
			return fmt.Errorf("endpoint %s/%s declares no urls", ep.Service, ep.Binding)
		}
	}
	return nil
}
