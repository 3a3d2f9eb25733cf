package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/discera/discera-client/internal/common"
	"github.com/discera/discera-client/internal/cryptox"
	"github.com/discera/discera-client/internal/filex"
)

// fileEnvelope is the on-disk layout of a FileRepository.
type fileEnvelope struct {
	Version    int    `json:"version"`
	Salt       []byte `json:"salt"`
	Nonce      []byte `json:"nonce"`
	Ciphertext []byte `json:"ciphertext"`
}

const fileEnvelopeVersion = 1

// FileRepository keeps all values in one file, sealed with a key derived
// from a passphrase. Every write re-encrypts the whole map and replaces
// the file atomically.
type FileRepository struct {
	mu   sync.Mutex
	path string
	key  []byte
	salt []byte
}

// OpenFileRepository opens (or prepares to create) the store at path.
// An existing file is decrypted once up front so a wrong passphrase is
// reported immediately as cryptox.ErrDecrypt.
func OpenFileRepository(path string, passphrase []byte) (*FileRepository, error) {
	r := &FileRepository{path: path}

	env, err := r.readEnvelope()
	if err != nil {
		return nil, err
	}
	if env == nil {
		r.salt = common.GenerateRandByteArray(cryptox.SaltSize)
		r.key = cryptox.DeriveKey(passphrase, r.salt)
		return r, nil
	}

	r.salt = env.Salt
	r.key = cryptox.DeriveKey(passphrase, r.salt)
	if _, err := r.decrypt(env); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *FileRepository) readEnvelope() (*fileEnvelope, error) {
	data, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var env fileEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if env.Version != fileEnvelopeVersion {
		return nil, fmt.Errorf("unsupported store file version %d", env.Version)
	}
	return &env, nil
}

func (r *FileRepository) decrypt(env *fileEnvelope) (map[string][]byte, error) {
	plain, err := cryptox.Open(env.Ciphertext, env.Nonce, r.key)
	if err != nil {
		return nil, err
	}
	defer common.WipeByteArray(plain)

	values := make(map[string][]byte)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, fmt.Errorf("decode store payload: %w", err)
	}
	return values, nil
}

func (r *FileRepository) load() (map[string][]byte, error) {
	env, err := r.readEnvelope()
	if err != nil {
		return nil, err
	}
	if env == nil {
		return make(map[string][]byte), nil
	}
	return r.decrypt(env)
}

func (r *FileRepository) save(values map[string][]byte) error {
	plain, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode store payload: %w", err)
	}
	defer common.WipeByteArray(plain)

	ct, nonce, err := cryptox.Seal(plain, r.key)
	if err != nil {
		return fmt.Errorf("seal store payload: %w", err)
	}

	data, err := json.Marshal(fileEnvelope{
		Version:    fileEnvelopeVersion,
		Salt:       r.salt,
		Nonce:      nonce,
		Ciphertext: ct,
	})
	if err != nil {
		return fmt.Errorf("encode store file: %w", err)
	}
	return filex.WriteFileAtomic(r.path, data, 0o600)
}

func (r *FileRepository) update(fn func(values map[string][]byte)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return err
	}
	fn(values)
	return r.save(values)
}

func (r *FileRepository) Get(_ context.Context, key string) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	values, err := r.load()
	if err != nil {
		return nil, err
	}
	return values[key], nil
}

func (r *FileRepository) Set(_ context.Context, key string, value []byte) error {
	return r.update(func(values map[string][]byte) {
		values[key] = value
	})
}

func (r *FileRepository) SetMany(_ context.Context, in map[string][]byte) error {
	return r.update(func(values map[string][]byte) {
		for k, v := range in {
			values[k] = v
		}
	})
}

func (r *FileRepository) Delete(_ context.Context, keys ...string) error {
	return r.update(func(values map[string][]byte) {
		for _, k := range keys {
			delete(values, k)
		}
	})
}

func (r *FileRepository) List(_ context.Context) (map[string][]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.load()
}

func (r *FileRepository) Clear(_ context.Context) error {
	return r.update(func(values map[string][]byte) {
		clear(values)
	})
}
