// Package sightings persists the history of phone detections: when a phone
// was seen, how confident the detector was, and whether a notification went
// out. Backed by SQLite; powers the history and stats commands and the daemon
// status snapshot.
package sightings
