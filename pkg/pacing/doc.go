// Package pacing spaces out requests to the remote image service.
//
// The fetch loop waits on a Pacer after every attempt that does not finish the
// run, whether the attempt saved an image, hit a duplicate, or failed. Waits are
// cancellable so an interrupt stops the loop without sitting out the full delay.
package pacing
