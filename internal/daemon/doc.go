// Package daemon owns the long-running lookout process: it enforces
// single-instance execution, assembles the capture/detect/notify pipeline,
// and exposes control operations consumed over IPC.
package daemon
