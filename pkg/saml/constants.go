package saml

// Version is the protocol version carried by every message this engine
// produces.
const Version = "2.0"

// XML namespaces for the SAML 2.0 protocol and assertion schemas
const (
	NsProtocol  = "urn:oasis:names:tc:SAML:2.0:protocol"
	NsAssertion = "urn:oasis:names:tc:SAML:2.0:assertion"
	NsXMLDSig   = "http://www.w3.org/2000/09/xmldsig#"
	NsSOAPEnv   = "http://schemas.xmlsoap.org/soap/envelope/"
)

// Binding identifies a transport binding for protocol messages
type Binding string

const (
	BindingHTTPPost     Binding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-POST"
	BindingHTTPRedirect Binding = "urn:oasis:names:tc:SAML:2.0:bindings:HTTP-Redirect"
	BindingSOAP         Binding = "urn:oasis:names:tc:SAML:2.0:bindings:SOAP"
)

// Query/form parameter names at the wire boundary
const (
	ParamRequest    = "SAMLRequest"
	ParamResponse   = "SAMLResponse"
	ParamRelayState = "RelayState"
)

// NameID format URIs
const (
	NameIDFormatEntity     = "urn:oasis:names:tc:SAML:2.0:nameid-format:entity"
	NameIDFormatPersistent = "urn:oasis:names:tc:SAML:2.0:nameid-format:persistent"
	NameIDFormatTransient  = "urn:oasis:names:tc:SAML:2.0:nameid-format:transient"
	NameIDFormatUnspec     = "urn:oasis:names:tc:SAML:1.1:nameid-format:unspecified"

	NameIDFormatEmailAddress = "urn:oasis:names:tc:SAML:1.1:nameid-format:emailAddress"
)

// Top-level status codes
const (
	StatusSuccess          = "urn:oasis:names:tc:SAML:2.0:status:Success"
	StatusRequester        = "urn:oasis:names:tc:SAML:2.0:status:Requester"
	StatusResponder        = "urn:oasis:names:tc:SAML:2.0:status:Responder"
	StatusVersionMismatch  = "urn:oasis:names:tc:SAML:2.0:status:VersionMismatch"
	StatusAuthnFailed      = "urn:oasis:names:tc:SAML:2.0:status:AuthnFailed"
	StatusRequestDenied    = "urn:oasis:names:tc:SAML:2.0:status:RequestDenied"
	StatusPartialLogout    = "urn:oasis:names:tc:SAML:2.0:status:PartialLogout"
	StatusUnknownPrincipal = "urn:oasis:names:tc:SAML:2.0:status:UnknownPrincipal"
)

// Logout reason URIs
const (
	LogoutReasonUser  = "urn:oasis:names:tc:SAML:2.0:logout:user"
	LogoutReasonAdmin = "urn:oasis:names:tc:SAML:2.0:logout:admin"
)
