package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sirosfoundation/go-saml2/pkg/message"
	"github.com/sirosfoundation/go-saml2/pkg/saml"
)

const peerID = "https://idp.example.com/metadata"

func TestResponseRole(t *testing.T) {
	role, err := ResponseRole(message.KindAuthnRequest)
	require.NoError(t, err)
	assert.Equal(t, RoleAssertionConsumer, role)

	role, err = ResponseRole(message.KindLogoutRequest)
	require.NoError(t, err)
	assert.Equal(t, RoleSingleLogout, role)

	role, err = ResponseRole(message.KindAttributeQuery)
	require.NoError(t, err)
	assert.Equal(t, RoleAttributeConsuming, role)

	_, err = ResponseRole(message.KindResponse)
	assert.ErrorIs(t, err, ErrUnknownRole)
}

func TestSelect_FirstMatchWins(t *testing.T) {
	store := NewStore()
	store.Register(peerID, RoleSingleLogout, saml.BindingHTTPPost,
		"https://idp.example.com/slo-post")
	store.Register(peerID, RoleSingleLogout, saml.BindingHTTPRedirect,
		"https://idp.example.com/slo-redirect")

	// Preference order decides, not registration order
	bind, dst, err := Select(store,
		[]saml.Binding{saml.BindingHTTPRedirect, saml.BindingHTTPPost},
		RoleSingleLogout, peerID)
	require.NoError(t, err)
	assert.Equal(t, saml.BindingHTTPRedirect, bind)
	assert.Equal(t, "https://idp.example.com/slo-redirect", dst)

	bind, dst, err = Select(store,
		[]saml.Binding{saml.BindingSOAP, saml.BindingHTTPPost},
		RoleSingleLogout, peerID)
	require.NoError(t, err)
	assert.Equal(t, saml.BindingHTTPPost, bind)
	assert.Equal(t, "https://idp.example.com/slo-post", dst)
}

func TestSelect_NoEndpoint(t *testing.T) {
	store := NewStore()
	store.Register(peerID, RoleSingleLogout, saml.BindingSOAP,
		"https://idp.example.com/slo-soap")

	_, _, err := Select(store,
		[]saml.Binding{saml.BindingHTTPRedirect, saml.BindingHTTPPost},
		RoleSingleLogout, peerID)
	assert.ErrorIs(t, err, ErrNoEndpoint)

	_, _, err = Select(store,
		[]saml.Binding{saml.BindingSOAP},
		RoleSingleLogout, "https://unknown.example.com")
	assert.ErrorIs(t, err, ErrNoEndpoint)
}

func TestStore_FirstEndpointOfPair(t *testing.T) {
	store := NewStore()
	store.Register(peerID, RoleSingleSignOn, saml.BindingHTTPRedirect,
		"https://idp.example.com/sso-1", "https://idp.example.com/sso-2")

	bind, dst, err := Select(store,
		[]saml.Binding{saml.BindingHTTPRedirect}, RoleSingleSignOn, peerID)
	require.NoError(t, err)
	assert.Equal(t, saml.BindingHTTPRedirect, bind)
	assert.Equal(t, "https://idp.example.com/sso-1", dst)
}

func TestStore_RegisterReplaces(t *testing.T) {
	store := NewStore()
	store.Register(peerID, RoleSingleSignOn, saml.BindingHTTPRedirect, "https://old.example.com")
	store.Register(peerID, RoleSingleSignOn, saml.BindingHTTPRedirect, "https://new.example.com")

	urls := store.Lookup(peerID, RoleSingleSignOn, saml.BindingHTTPRedirect)
	assert.Equal(t, []string{"https://new.example.com"}, urls)
}

func TestStore_Known(t *testing.T) {
	store := NewStore()
	assert.False(t, store.Known(peerID))

	store.Register(peerID, RoleSingleSignOn, saml.BindingHTTPRedirect, "https://idp.example.com/sso")
	assert.True(t, store.Known(peerID))
}
