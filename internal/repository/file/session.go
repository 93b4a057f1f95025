package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"userbot/internal/codec"
	"userbot/internal/repository"

	"filippo.io/age"
)

// ageHeader is the first line of every age file
var ageHeader = []byte("age-encryption.org/v1\n")

// ErrPassphraseRequired is returned when an encrypted session file is
// loaded without a passphrase
var ErrPassphraseRequired = errors.New("session file is encrypted, passphrase required")

// SessionRepo implements repository.SessionRepository on a single file
type SessionRepo struct {
	path       string
	passphrase string
	workFactor int
	now        func() time.Time
}

// Option configures a SessionRepo
type Option func(*SessionRepo)

// WithPassphrase encrypts the file with an age scrypt recipient
func WithPassphrase(passphrase string) Option {
	return func(r *SessionRepo) {
		r.passphrase = passphrase
	}
}

// WithWorkFactor overrides the scrypt work factor (log2 of N)
func WithWorkFactor(logN int) Option {
	return func(r *SessionRepo) {
		r.workFactor = logN
	}
}

// NewSessionRepo creates a file backed session repository
func NewSessionRepo(path string, opts ...Option) *SessionRepo {
	r := &SessionRepo{
		path: path,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Location returns the file path
func (r *SessionRepo) Location() string {
	return r.path
}

// Load reads and verifies the session file
func (r *SessionRepo) Load(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("reading session file: %w", err)
	}

	if bytes.HasPrefix(data, ageHeader) {
		if r.passphrase == "" {
			return nil, ErrPassphraseRequired
		}
		data, err = r.decrypt(data)
		if err != nil {
			return nil, err
		}
	}

	return codec.Open(data)
}

// Save writes the session file atomically: the envelope goes to a temp file
// in the same directory which is synced and renamed over the target.
func (r *SessionRepo) Save(ctx context.Context, blob []byte) error {
	data, err := codec.Seal(blob, r.now())
	if err != nil {
		return err
	}

	if r.passphrase != "" {
		data, err = r.encrypt(data)
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmpName)
		}
	}()

	if err := tmp.Chmod(0600); err != nil {
		return fmt.Errorf("setting session file mode: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("writing session file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing session file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing session file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replacing session file: %w", err)
	}
	committed = true

	return nil
}

func (r *SessionRepo) encrypt(plaintext []byte) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(r.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt recipient: %w", err)
	}
	if r.workFactor > 0 {
		recipient.SetWorkFactor(r.workFactor)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("writing plaintext to age encryptor: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *SessionRepo) decrypt(ciphertext []byte) ([]byte, error) {
	identity, err := age.NewScryptIdentity(r.passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}

	rd, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("decrypting session file: %w", err)
	}

	plaintext, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted session: %w", err)
	}
	return plaintext, nil
}
