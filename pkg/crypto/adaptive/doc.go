// Package adaptive seals small secrets with an AEAD chosen for the host CPU.
//
// AES-256-GCM is preferred where Go has hardware AES support (amd64, arm64);
// ChaCha20-Poly1305 is used elsewhere. Every sealed blob starts with a one
// byte algorithm tag, so a blob written on one host opens on any other host
// holding the same key.
//
// Layout:
//
//	tag(1) | nonce(NonceSize) | ciphertext+tag
//
// Usage:
//
//	s, err := adaptive.New(key)
//	blob, err := s.Seal(plaintext, aad)
//	plaintext, err := s.Open(blob, aad)
package adaptive
