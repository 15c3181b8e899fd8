// Package redis provides the production implementation of the coordination
// store on a shared Redis instance, using SET NX EX for create-if-absent and
// a Lua script for atomic compare-and-delete.
package redis
