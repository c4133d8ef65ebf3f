// Package api handles incoming HTTP requests, request validation and response
// formatting. It adapts HTTP concerns to the card and study services; routing
// lives in cmd/server.
package api
