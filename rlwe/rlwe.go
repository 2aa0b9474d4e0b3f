// Package rlwe implements the generation of fresh RLWE encryptions of the
// zero plaintext, in asymmetric (public-key) and symmetric (secret-key) form,
// together with the parameter, key and ciphertext types they operate on.
// Higher-level encryption is obtained by adding an encoded message to the
// first polynomial of a zero encryption.
package rlwe

import (
	"fmt"
)

// ErrUnsupportedParameter is the base error returned when a requested
// operation is not supported for the given distribution parameters.
var ErrUnsupportedParameter = fmt.Errorf("unsupported parameter")

// ErrInvalidKey is the base error returned when a key does not match the
// encryption parameters it is used with.
var ErrInvalidKey = fmt.Errorf("key is not valid for the encryption parameters")
