// Package executor runs planned ffmpeg stages in order. It owns the
// session scratch directory, writes concat list files, surfaces encoder
// progress, and wraps failures with the tail of ffmpeg's stderr so the
// user sees what the encoder actually said.
package executor
