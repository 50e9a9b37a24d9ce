package entity

import (
	"crypto/x509"
	"fmt"

	"github.com/sirosfoundation/go-saml2/internal/config"
	"github.com/sirosfoundation/go-saml2/internal/keystore"
	"github.com/sirosfoundation/go-saml2/pkg/identity"
	"github.com/sirosfoundation/go-saml2/pkg/metadata"
)

// LoadFile assembles an entity from a YAML configuration file. Key
// material is loaded from the PEM files the configuration names, peer
// endpoints are registered into an in-memory store, and the signing
// certificates of all configured peers become the trust set for inbound
// signatures.
func LoadFile(path string) (*Entity, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

// LoadConfig assembles an entity from YAML configuration bytes
func LoadConfig(data []byte) (*Entity, error) {
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, err
	}
	return fromConfig(cfg)
}

func fromConfig(cfg *config.Config) (*Entity, error) {
	var idOpts []identity.Option
	if cfg.Entity.KeyFile != "" {
		key, cert, err := keystore.LoadKeyPair(cfg.Entity.KeyFile, cfg.Entity.CertFile)
		if err != nil {
			return nil, fmt.Errorf("loading key material: %w", err)
		}
		idOpts = append(idOpts, identity.WithKeyPair(key, cert))
	}
	idOpts = append(idOpts, identity.WithAcceptedSkew(cfg.Verification.AcceptedSkew))

	id, err := identity.New(cfg.Entity.EntityID, idOpts...)
	if err != nil {
		return nil, err
	}

	peers := metadata.NewStore()
	var peerCerts []*x509.Certificate
	for _, peer := range cfg.Peers {
		if peer.CertFile != "" {
			cert, err := keystore.LoadCertificate(peer.CertFile)
			if err != nil {
				return nil, fmt.Errorf("loading certificate of peer %s: %w", peer.EntityID, err)
			}
			peerCerts = append(peerCerts, cert)
		}
		if err := register(peers, peer.EntityID, peer.Endpoints); err != nil {
			return nil, err
		}
	}

	var own metadata.EndpointStore
	if len(cfg.Endpoints) > 0 {
		store := metadata.NewStore()
		if err := register(store, cfg.Entity.EntityID, cfg.Endpoints); err != nil {
			return nil, err
		}
		own = store
	}

	policy, err := cfg.Verification.Policy()
	if err != nil {
		return nil, err
	}

	return New(Config{
		Identity:          id,
		Peers:             peers,
		PeerCertificates:  peerCerts,
		OwnEndpoints:      own,
		RequireSignature:  cfg.Verification.RequireSignature,
		DestinationPolicy: policy,
		ReplayWindow:      cfg.Verification.ReplayWindow,
	})
}

func register(store *metadata.Store, entityID string, endpoints []config.EndpointConfig) error {
	for _, ep := range endpoints {
		role, err := config.ParseService(ep.Service)
		if err != nil {
			return err
		}
		bind, err := config.ParseBinding(ep.Binding)
		if err != nil {
			return err
		}
		store.Register(entityID, role, bind, ep.URLs...)
	}
	return nil
}
