// Package engine defines the error taxonomy shared by every phase of the
// interpretation pipeline: grammar resolution, operation building, filter
// graph compilation, planning, and execution. Callers classify failures with
// errors.Is against the exported sentinels.
package engine
