// Package secret implements the envelope encryption applied to sensitive
// values in the opstab file (server passwords, flagged parameters).
//
// A value is either plaintext or a self-describing token beginning with
// secret.Prefix; the prefix sniff decides whether a read needs decryption
// and whether a write must re-encrypt.
package secret
