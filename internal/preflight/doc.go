// Package preflight provides readiness checks for the camera device,
// notification backend, and filesystem paths that lookout depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll before starting the watch loop, so an unplugged
//     camera or missing osascript surfaces immediately instead of as a stream
//     of per-frame errors.
//   - The CLI "lookout status" and "lookout camera check" commands use
//     individual check functions to display readiness.
package preflight
