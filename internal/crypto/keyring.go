package crypto

import (
	"errors"
	"os"
)

// Keyring provides secure key storage abstraction
type Keyring interface {
	GetKey() (string, error)
	SetKey(password string) error
	DeleteKey() error
	IsAvailable() bool
}

const (
	ServiceName = "invoicer"
	KeyName     = "db-encryption-key"

	// EnvKey overrides the system keyring when set
	EnvKey = "INVOICER_DB_KEY"
)

// ErrNoKey is returned when no encryption key is stored anywhere
var ErrNoKey = errors.New("encryption key not found")

// NewKeyring returns a keyring that reads INVOICER_DB_KEY first and falls
// back to the OS credential store.
func NewKeyring() Keyring {
	return &chainKeyring{env: envKeyring{}, system: systemKeyring{}}
}

type chainKeyring struct {
	env    Keyring
	system Keyring
}

func (k *chainKeyring) GetKey() (string, error) {
	if key, err := k.env.GetKey(); err == nil {
		return key, nil
	}
	return k.system.GetKey()
}

// SetKey always writes to the system keyring; the environment is read-only.
func (k *chainKeyring) SetKey(password string) error {
	return k.system.SetKey(password)
}

func (k *chainKeyring) DeleteKey() error {
	return k.system.DeleteKey()
}

func (k *chainKeyring) IsAvailable() bool {
	return k.env.IsAvailable() || k.system.IsAvailable()
}

type envKeyring struct{}

func (envKeyring) GetKey() (string, error) {
	key := os.Getenv(EnvKey)
	if key == "" {
		return "", ErrNoKey
	}
	return key, nil
}

func (envKeyring) SetKey(string) error {
	return errors.New("cannot store key in environment: set " + EnvKey + " manually")
}

func (envKeyring) DeleteKey() error {
	return errors.New("cannot delete key from environment: unset " + EnvKey + " manually")
}

func (envKeyring) IsAvailable() bool {
	return os.Getenv(EnvKey) != ""
}
