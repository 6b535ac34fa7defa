package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"filippo.io/age"
)

// EncryptingArchiver wraps another Archiver and age-encrypts every file
// before handing it on. Encrypted files get an ".age" suffix. Only the
// recipient's X25519 public key is needed; decryption happens wherever
// the matching identity lives.
type EncryptingArchiver struct {
	inner     Archiver
	recipient age.Recipient
}

var _ Archiver = (*EncryptingArchiver)(nil)

// NewEncryptingArchiver wraps inner with encryption to the given
// recipient ("age1..." public key string).
func NewEncryptingArchiver(inner Archiver, recipient string) (*EncryptingArchiver, error) {
	recipients, err := age.ParseRecipients(strings.NewReader(recipient))
	if err != nil {
		return nil, fmt.Errorf("parsing age recipient: %w", err)
	}
	if len(recipients) == 0 {
		return nil, fmt.Errorf("no recipients found in age_recipient")
	}
	return &EncryptingArchiver{inner: inner, recipient: recipients[0]}, nil
}

// Put encrypts the stream and stores it as <name>.age. The ciphertext
// size is unknown until encryption completes, so the inner size check is
// driven by the encrypted length.
func (a *EncryptingArchiver) Put(ctx context.Context, name string, r io.Reader, _ int64) error {
	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, a.recipient)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.Copy(w, r); err != nil {
		return fmt.Errorf("encrypting %s: %w", name, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption of %s: %w", name, err)
	}

	return a.inner.Put(ctx, name+".age", bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}

// ValidateSetup delegates to the wrapped backend.
func (a *EncryptingArchiver) ValidateSetup(ctx context.Context) error {
	return a.inner.ValidateSetup(ctx)
}
