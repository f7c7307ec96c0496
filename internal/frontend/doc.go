// Package frontend contains the user-facing transports for convbot.
//
// # Overview
//
// Two frontends share one conversation service:
//
//   - Console: an interactive readline REPL for local use. One process,
//     one session.
//   - WebSocket: a JSON-over-websocket endpoint. Each message carries a
//     session identifier, so one connection can multiplex sessions and a
//     session can survive a reconnect.
//
// Frontends only render. All dialogue logic lives in the conversation
// package; a frontend turns its transport's messages into HandleInput
// calls and renders the replies.
//
// # WebSocket Protocol
//
// Client to server:
//
//	{"session_id": "abc", "text": "/convert"}
//
// session_id is optional; when empty the server assigns one per
// connection and echoes it in every reply.
//
// Server to client:
//
//	{"session_id": "abc", "text": "Choose a category:", "options": ["Length", ...], "end_session": false}
//
// options are suggestions in presentation order. end_session means the
// dialogue returned to idle; the connection stays open.
package frontend
