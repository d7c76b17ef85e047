// Package biquad implements second-order IIR filter sections in Direct
// Form II Transposed.
//
// A Section pairs a0-normalized transfer coefficients with two state
// values. Coefficients can be swapped at any rate without clearing state;
// sweeping effects rely on this to move a filter continuously. Block
// processing dispatches to the best kernel registered for the host CPU.
package biquad
