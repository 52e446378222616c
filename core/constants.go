package core

// HTTP-related constants for QRS requests

// HTTP Header Names
const (
	HeaderContentType = "Content-Type"
	HeaderUserAgent   = "User-Agent"
	HeaderXrfkey      = "X-Qlik-Xrfkey"
	HeaderQlikUser    = "X-Qlik-User"
)

// HTTP Content Types
const (
	ContentTypeJSON        = "application/json"
	ContentTypeMsgpack     = "application/msgpack"
	ContentTypeXMsgpack    = "application/x-msgpack"
	ContentTypeOctetStream = "application/octet-stream"
)

// Connection defaults
const (
	DefaultHost   = "localhost"
	DefaultPort   = 4242
	DefaultXrfkey = "abcdefghijklmnop"

	// XrfkeyQueryParam is always the first query parameter of every request.
	XrfkeyQueryParam = "xrfkey"

	// apiNamespace is the leading path segment skipped when deriving method names.
	apiNamespace = "qrs"
)

// Allowed HTTP verbs for registered methods.
const (
	VerbGet    = "GET"
	VerbPost   = "POST"
	VerbPut    = "PUT"
	VerbDelete = "DELETE"
)

var allowedVerbs = map[string]struct{}{
	VerbGet:    {},
	VerbPost:   {},
	VerbPut:    {},
	VerbDelete: {},
}
