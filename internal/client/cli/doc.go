// Package cli provides the interactive tripshare command-line client.
//
// It wires configuration, the gRPC API client and the workspace, then runs
// a REPL whose commands follow the dashboard of the logged-in role:
//
//   - User: trip planning (plan, toggle) and profile editing
//   - AllocationAdmin: allocation review (generate) and the holiday calendar
//   - SystemAdmin: user management and system settings
//
// App.Run blocks until the user exits. A failed initial load (users and
// settings) ends the program before any dashboard is shown.
package cli
