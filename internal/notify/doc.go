// Package notify defines the outbound notification contract and builds the
// configured delivery backend. Delivery may be slow and synchronous; failures
// are delivery-class errors that never abort the watch loop and never rewind
// the notification cooldown.
package notify
