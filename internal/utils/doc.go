// Package utils holds low-level helpers shared by backends: [DoPostSync] for
// synchronous JSON round trips over HTTP and a few string helpers used when
// logging payloads.
package utils
