package metadata

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirosfoundation/go-saml2/pkg/message"
	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

var (
	// ErrNoEndpoint is returned when a peer advertises no endpoint for
	// any of the candidate bindings. Fatal to the exchange; the message
	// cannot be delivered.
	ErrNoEndpoint = errors.New("no matching endpoint")
	// ErrUnknownRole is returned for a request kind with no response
	// service role.
	ErrUnknownRole = errors.New("no service role for message kind")
)

// ServiceRole names a peer service a message can be addressed to
type ServiceRole string

const (
	RoleSingleSignOn       ServiceRole = "single_sign_on_service"
	RoleSingleLogout       ServiceRole = "single_logout_service"
	RoleAssertionConsumer  ServiceRole = "assertion_consumer_service"
	RoleAttributeService   ServiceRole = "attribute_service"
	RoleAttributeConsuming ServiceRole = "attribute_consuming_service"
)

// responseRoles maps a request kind to the peer service role the answer
// is delivered to. A direct table, not dispatch on runtime types.
var responseRoles = map[message.Kind]ServiceRole{
	message.KindAuthnRequest:   RoleAssertionConsumer,
	message.KindLogoutRequest:  RoleSingleLogout,
	message.KindAttributeQuery: RoleAttributeConsuming,
}

// ResponseRole returns the peer service role that receives the response
// to a request of the given kind.
func ResponseRole(kind message.Kind) (ServiceRole, error) {
	role, ok := responseRoles[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownRole, kind)
	}
	return role, nil
}

// EndpointStore answers capability lookups against peer metadata.
// Implementations must be safe for concurrent readers; a refresh must
// never be observed as a torn read by an in-flight lookup.
type EndpointStore interface {
	// Lookup returns the advertised endpoint URLs of a peer for one
	// (role, binding) pair, in metadata order. Empty when the peer does
	// not advertise the pair.
	Lookup(entityID string, role ServiceRole, binding saml.Binding) []string
}

// Select walks the caller's binding preference order and returns the
// first (binding, destination) the peer advertises for the role. First
// match wins; there is no scoring and no merging across bindings.
func Select(store EndpointStore, bindings []saml.Binding, role ServiceRole, entityID string) (saml.Binding, string, error) {
	for _, b := range bindings {
		if urls := store.Lookup(entityID, role, b); len(urls) > 0 {
			return b, urls[0], nil
		}
	}
	return "", "", fmt.Errorf("%w: entity %s, role %s", ErrNoEndpoint, entityID, role)
}

type endpointKey struct {
	role    ServiceRole
	binding saml.Binding
}

// Store is an in-memory EndpointStore. Registration and lookup may run
// concurrently; lookups see either the old or the new endpoint list for
// a key, never a mix.
type Store struct {
	mu    sync.RWMutex
	peers map[string]map[endpointKey][]string
}

// NewStore creates an empty in-memory endpoint store
func NewStore() *Store {
	return &Store{
		peers: make(map[string]map[endpointKey][]string),
	}
}

// Register records the endpoints a peer advertises for a (role, binding)
// pair, replacing any previous registration for that pair.
func (s *Store) Register(entityID string, role ServiceRole, binding saml.Binding, urls ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	peer, ok := s.peers[entityID]
	if !ok {
		peer = make(map[endpointKey][]string)
		s.peers[entityID] = peer
	}
	peer[endpointKey{role, binding}] = append([]string(nil), urls...)
}

// Lookup implements EndpointStore
func (s *Store) Lookup(entityID string, role ServiceRole, binding saml.Binding) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	peer, ok := s.peers[entityID]
	if !ok {
		return nil
	}
	return peer[endpointKey{role, binding}]
}

// Known reports whether any endpoints are registered for a peer
func (s *Store) Known(entityID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.peers[entityID]) > 0
}
