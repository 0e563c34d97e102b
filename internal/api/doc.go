// Package api implements the HTTP REST API and WebSocket server for pidstore.
//
// This package provides:
//   - REST endpoints to read and write the stored configuration, per item or
//     as a whole document
//   - Field metadata with evaluated visibility for settings pages
//   - Commit, defaults and factory reset operations
//   - WebSocket hub broadcasting every configuration change
//   - JWT bearer authentication on mutating routes
//
// # Security
//
// Reads are open. Every route that changes the store requires an HS256
// bearer token signed with security.jwt.secret; without a configured secret
// those routes always answer 401. Tokens are minted offline with
// "pidstore token". Secret fields (passwords) are masked in every response
// and a masked value sent back in a document leaves the stored value alone.
//
// # WebSocket
//
// Clients connect to /api/v1/ws, send
//
//	{"type": "subscribe", "payload": {"channels": ["config.changed"]}}
//
// and receive one event per store change afterwards.
package api
