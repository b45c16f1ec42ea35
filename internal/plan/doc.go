// Package plan turns compiled stages into a concrete execution plan:
// it names final outputs, allocates session scratch paths, resolves
// inter-stage references, and refuses to clobber existing files unless
// overwriting was requested. Plans render deterministically so a dry
// run of the same command always prints the same bytes.
package plan
