// Package pigeon provides a Go client for the Pigeon chat platform bot API,
// covering the realtime websocket session and the REST lookup endpoints.
//
// The primary lifecycle is:
//   - construct a Client with NewClient and a Config holding the bot token
//   - register event handlers (OnReady, OnNewMessage, and friends)
//   - Connect to open the websocket and authenticate
//   - issue commands (SendMessage, AddReaction, ...) once ready
//   - Disconnect when finished
//
// Commands require an authenticated session; issuing one earlier fails
// synchronously with a typed state error. Failures the client detects on its
// own, such as undecodable frames or server error envelopes, are funneled
// through the error event so a single handler can centralize reporting.
// Unless DisableAutoReconnect is set, a supervising goroutine re-dials after
// every drop using the configured reconnect delay strategy.
//
// Event handlers run sequentially on the receive goroutine in transport
// delivery order, so a handler never races another handler of the same
// client. Handlers that block delay subsequent events.
//
// Errors are reported as typed pigeon errors created with NewError and may
// wrap connection, authentication, protocol, timeout, or request causes.
package pigeon
