// Package preflight provides readiness checks for the binaries and
// filesystem paths an encode depends on.
//
// The checks run in two contexts:
//   - Before execution, Verify confirms the encoder exists, the output
//     directory is writable, and enough disk is free. A failure aborts
//     the run before ffmpeg ever spawns.
//   - The CLI "reel doctor" command uses RunAll to display each check
//     individually.
package preflight
