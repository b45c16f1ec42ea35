// Package compile lowers validated operations into ffmpeg invocation
// stages. A stage carries its input paths, the argument list between
// inputs and output, and a symbolic output slot; the planner resolves
// slots to concrete paths and the executor runs stages in dependency
// order.
package compile
