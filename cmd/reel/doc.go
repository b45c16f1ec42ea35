// Command reel turns near-English media sentences into ffmpeg
// invocations: "reel compress video.mp4 to 10mb". Anything that is not
// a management subcommand (doctor, config, history, version) is treated
// as a sentence and resolved against the command grammar.
package main
