// Package api holds the transport-neutral view types and workflows shared by
// the CLI and the IPC layer: sighting DTOs, status lines, and the
// notification test flow that works with or without a running daemon.
package api
