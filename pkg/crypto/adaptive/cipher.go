package adaptive

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"runtime"

	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the required key length for every algorithm.
const KeySize = 32

// Algorithm identifies an AEAD construction. Its value is the tag byte
// written at the start of each sealed blob.
type Algorithm byte

const (
	AESGCM           Algorithm = 1
	ChaCha20Poly1305 Algorithm = 2
)

func (a Algorithm) String() string {
	switch a {
	case AESGCM:
		return "aes-256-gcm"
	case ChaCha20Poly1305:
		return "chacha20-poly1305"
	default:
		return fmt.Sprintf("unknown(%d)", byte(a))
	}
}

var (
	ErrInvalidKey       = errors.New("adaptive: key must be 32 bytes")
	ErrUnknownAlgorithm = errors.New("adaptive: unknown algorithm")
	ErrMalformed        = errors.New("adaptive: sealed data malformed")
	ErrOpen             = errors.New("adaptive: message authentication failed")
)

// Preferred returns the algorithm that is fastest on the running architecture.
func Preferred() Algorithm {
	switch runtime.GOARCH {
	case "amd64", "arm64":
		return AESGCM
	default:
		return ChaCha20Poly1305
	}
}

// Sealer encrypts with one algorithm and decrypts with any supported one.
// It is safe for concurrent use.
type Sealer struct {
	alg   Algorithm
	aeads map[Algorithm]cipher.AEAD
}

// New creates a Sealer that writes with Preferred().
func New(key []byte) (*Sealer, error) {
	return NewWith(key, Preferred())
}

// NewWith creates a Sealer that writes with alg.
func NewWith(key []byte, alg Algorithm) (*Sealer, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	cc, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}

	s := &Sealer{
		alg: alg,
		aeads: map[Algorithm]cipher.AEAD{
			AESGCM:           gcm,
			ChaCha20Poly1305: cc,
		},
	}
	if _, ok := s.aeads[alg]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, alg)
	}
	return s, nil
}

// Algorithm returns the algorithm used by Seal.
func (s *Sealer) Algorithm() Algorithm {
	return s.alg
}

// Seal encrypts plaintext, binding it to additionalData.
func (s *Sealer) Seal(plaintext, additionalData []byte) ([]byte, error) {
	aead := s.aeads[s.alg]

	out := make([]byte, 1+aead.NonceSize(), 1+aead.NonceSize()+len(plaintext)+aead.Overhead())
	out[0] = byte(s.alg)
	nonce := out[1:]
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	return aead.Seal(out, nonce, plaintext, additionalData), nil
}

// Open decrypts a blob produced by Seal with the same key and additionalData.
func (s *Sealer) Open(sealed, additionalData []byte) ([]byte, error) {
	if len(sealed) < 1 {
		return nil, ErrMalformed
	}
	aead, ok := s.aeads[Algorithm(sealed[0])]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownAlgorithm, Algorithm(sealed[0]))
	}

	body := sealed[1:]
	if len(body) < aead.NonceSize()+aead.Overhead() {
		return nil, ErrMalformed
	}

	nonce, ct := body[:aead.NonceSize()], body[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ct, additionalData)
	if err != nil {
		return nil, ErrOpen
	}
	return plaintext, nil
}
