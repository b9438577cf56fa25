// Package vault reads string secrets from a HashiCorp Vault KV v2 engine.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"

	vault "github.com/hashicorp/vault/api"
)

// RefPrefix marks a config value that names a Vault secret instead of holding it.
const RefPrefix = "vault:"

// Client is safe for concurrent use.
type Client struct {
	api *vault.Client
}

// New builds a client from VAULT_ADDR, VAULT_TOKEN and the other standard
// VAULT_* variables.
func New() (*Client, error) {
	cfg := vault.DefaultConfig()
	if err := cfg.ReadEnvironment(); err != nil {
		return nil, fmt.Errorf("vault env cfg: %w", err)
	}
	api, err := vault.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault api: %w", err)
	}
	return &Client{api: api}, nil
}

// GetKV fetches key from the KV v2 secret at secretPath ("<mount>/<path>").
func (c *Client) GetKV(ctx context.Context, secretPath, key string) (string, error) {
	if secretPath == "" || key == "" {
		return "", errors.New("secret path and key must be non-empty")
	}
	mount, rel := splitMount(secretPath)
	if rel == "" {
		return "", fmt.Errorf("secret path %q has no mount", secretPath)
	}
	sec, err := c.api.KVv2(mount).Get(ctx, rel)
	if err != nil {
		return "", fmt.Errorf("vault get %s: %w", secretPath, err)
	}
	raw, ok := sec.Data[key]
	if !ok {
		return "", fmt.Errorf("key %q not found in secret %q", key, secretPath)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("value at %s#%s is not a string", secretPath, key)
	}
	return s, nil
}

// IsRef reports whether v is a vault:<path>#<key> reference.
func IsRef(v string) bool { return strings.HasPrefix(v, RefPrefix) }

// ParseRef splits "vault:<mount>/<path>#<key>".
func ParseRef(ref string) (secretPath, key string, err error) {
	rest, ok := strings.CutPrefix(ref, RefPrefix)
	if !ok {
		return "", "", fmt.Errorf("%q is not a vault reference", ref)
	}
	secretPath, key, ok = strings.Cut(rest, "#")
	secretPath = strings.Trim(secretPath, "/")
	if !ok || secretPath == "" || key == "" {
		return "", "", fmt.Errorf("vault reference %q must look like vault:<mount>/<path>#<key>", ref)
	}
	return secretPath, key, nil
}

func splitMount(p string) (mount, rel string) {
	mount, rel, _ = strings.Cut(strings.Trim(p, "/"), "/")
	return mount, rel
}
