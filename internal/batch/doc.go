// Package batch drives multi-file processing: glob expansion with
// bounded concurrency, folder watching, and YAML step pipelines. Each
// driver re-enters the engine through a RunFunc callback, so every file
// goes through the same grammar, validation and planning as a single
// invocation.
package batch
