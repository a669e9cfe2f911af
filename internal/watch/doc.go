// Package watch runs the per-frame detection cycle: acquire a frame, detect
// candidates, aggregate them into a present/absent decision, pass the decision
// through the notification throttle, and deliver a message when allowed. One
// sequential cycle per frame; delivery happens outside the throttle lock.
package watch
