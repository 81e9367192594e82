package adaptive

import (
	"bytes"
	"errors"
	"testing"
)

func testKey() []byte {
	key := make([]byte, KeySize)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestNew_KeySize(t *testing.T) {
	for _, n := range []int{0, 16, 24, 31, 33} {
		if _, err := New(make([]byte, n)); !errors.Is(err, ErrInvalidKey) {
			t.Errorf("New(%d bytes) error = %v, want ErrInvalidKey", n, err)
		}
	}
	if _, err := New(testKey()); err != nil {
		t.Fatalf("New() error = %v", err)
	}
}

func TestNewWith_UnknownAlgorithm(t *testing.T) {
	_, err := NewWith(testKey(), Algorithm(9))
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("NewWith() error = %v, want ErrUnknownAlgorithm", err)
	}
}

func TestSealOpen(t *testing.T) {
	for _, alg := range []Algorithm{AESGCM, ChaCha20Poly1305} {
		t.Run(alg.String(), func(t *testing.T) {
			s, err := NewWith(testKey(), alg)
			if err != nil {
				t.Fatalf("NewWith() error = %v", err)
			}

			tests := []struct {
				name      string
				plaintext []byte
				ad        []byte
			}{
				{"empty", []byte{}, nil},
				{"simple", []byte("hello"), nil},
				{"with ad", []byte("eyJhbGciOi.x.y"), []byte("access_token")},
				{"binary", []byte{0x00, 0xFF, 0x80}, []byte{0x01}},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					blob, err := s.Seal(tt.plaintext, tt.ad)
					if err != nil {
						t.Fatalf("Seal() error = %v", err)
					}
					if Algorithm(blob[0]) != alg {
						t.Errorf("tag = %v, want %v", Algorithm(blob[0]), alg)
					}

					got, err := s.Open(blob, tt.ad)
					if err != nil {
						t.Fatalf("Open() error = %v", err)
					}
					if !bytes.Equal(got, tt.plaintext) {
						t.Errorf("Open() = %q, want %q", got, tt.plaintext)
					}
				})
			}
		})
	}
}

func TestOpen_CrossAlgorithm(t *testing.T) {
	writer, _ := NewWith(testKey(), ChaCha20Poly1305)
	reader, _ := NewWith(testKey(), AESGCM)

	blob, err := writer.Seal([]byte("portable"), nil)
	if err != nil {
		t.Fatalf("Seal() error = %v", err)
	}
	got, err := reader.Open(blob, nil)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if string(got) != "portable" {
		t.Errorf("Open() = %q", got)
	}
}

func TestSeal_NonceIsRandom(t *testing.T) {
	s, _ := New(testKey())
	a, _ := s.Seal([]byte("same"), nil)
	b, _ := s.Seal([]byte("same"), nil)
	if bytes.Equal(a, b) {
		t.Error("two seals of the same plaintext are identical")
	}
}

func TestOpen_Rejects(t *testing.T) {
	s, _ := New(testKey())
	blob, _ := s.Seal([]byte("secret"), []byte("k1"))

	tampered := append([]byte(nil), blob...)
	tampered[len(tampered)-1] ^= 0xFF

	other := testKey()
	other[0] ^= 0xFF
	wrongKey, _ := New(other)

	tests := []struct {
		name    string
		sealer  *Sealer
		blob    []byte
		ad      []byte
		wantErr error
	}{
		{"empty", s, nil, nil, ErrMalformed},
		{"tag only", s, []byte{byte(AESGCM)}, nil, ErrMalformed},
		{"unknown tag", s, append([]byte{7}, blob[1:]...), []byte("k1"), ErrUnknownAlgorithm},
		{"tampered", s, tampered, []byte("k1"), ErrOpen},
		{"wrong ad", s, blob, []byte("k2"), ErrOpen},
		{"wrong key", wrongKey, blob, []byte("k1"), ErrOpen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.sealer.Open(tt.blob, tt.ad)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Open() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPreferred(t *testing.T) {
	switch Preferred() {
	case AESGCM, ChaCha20Poly1305:
	default:
		t.Errorf("Preferred() = %v", Preferred())
	}
}
