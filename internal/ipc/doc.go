// Package ipc exposes daemon control over JSON-RPC on a Unix domain socket.
// The CLI is the only intended client; requests and responses are small,
// JSON-tagged structs so the protocol stays inspectable with socat.
package ipc
