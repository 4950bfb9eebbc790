// Package preflight provides readiness checks for the filesystem paths and
// the Telegram connection snapsort depends on.
//
// These checks run in two contexts:
//   - The daemon runs RunAll once at startup and logs every result, so a
//     misconfigured directory or a bad bot token is visible immediately.
//   - The CLI "snapsort check" command renders the same results as a table
//     for interactive troubleshooting.
//
// Checks never mutate anything; directory creation happens in config.
package preflight
