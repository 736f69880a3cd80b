package transport

// Wire header names the protocol carries on every HTTP request beyond the
// invoke endpoint's initial handshake.
const (
	HeaderProtocolVersion = "x-asmv-protocol-version"

	HeaderClientChannelID    = "x-asmv-client-channel-id"
	HeaderClientChannelURL   = "x-asmv-client-channel-url"
	HeaderClientChannelToken = "x-asmv-client-channel-token"

	HeaderServiceChannelID    = "x-asmv-service-channel-id"
	HeaderServiceChannelURL   = "x-asmv-service-channel-url"
	HeaderServiceChannelToken = "x-asmv-service-channel-token"
)

// ProtocolVersion is the version this implementation speaks and accepts
// (any 1.x peer).
const ProtocolVersion = "1.0.0"
