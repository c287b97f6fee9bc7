// Package transport carries wire envelopes between the correlator and the
// routing layer.
//
// The platform core only requires that every outbound message carries a
// correlation id and every inbound message is checked against the pending
// table; Loopback implements that contract in process. Socket framing and
// remote delivery are external collaborators behind the same interface.
package transport
