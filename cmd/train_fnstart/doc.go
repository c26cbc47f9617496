// Package main trains the function start tagger on a corpus of ELF binaries.
// It takes one argument, a binary or a directory of binaries, trains on 90% of
// the 1000-byte blocks of their code, evaluates on the rest every 10000
// samples, and prints the best scores when done or interrupted (Ctrl-C).
package main
