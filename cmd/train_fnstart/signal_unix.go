//go:build unix

package main

import "os"

import "golang.org/x/sys/unix"

var shutdownSignals = []os.Signal{unix.SIGINT, unix.SIGTERM}
