/*
Package errors implements custom error interfaces for quorum.

The package is based on root error instances that are registered with a
unique code. All errors created during runtime should wrap one of the root
errors, which allows testing for an error kind (via Is) without string
comparison and returning a stable code to the client regardless of how many
layers of wrapping were added.
*/
package errors
