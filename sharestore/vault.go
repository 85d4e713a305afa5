package sharestore

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/vault/api"

	"github.com/keyquorum/share-recovery-backend/interfaces"
)

// vaultDataField is the KV field documents are stored under, base64 encoded
// so the JSON survives Vault's own JSON transport untouched.
const vaultDataField = "document"

// VaultStore keeps share-set documents in a HashiCorp Vault KV v2 mount.
type VaultStore struct {
	client      *api.Client
	mountPath   string
	dataPath    string
	log         *slog.Logger
	locationURI string
}

// NewVaultStore creates a Vault-backed store.
//
// Parameters:
//   - address: Vault server address (e.g. https://vault.example.com:8200)
//   - mountPath: KV v2 mount (e.g. "secret")
//   - dataPath: path within the mount (e.g. "recovery/sets")
//   - token: Vault token; empty falls back to the VAULT_TOKEN environment
//     variable via the default config
func NewVaultStore(address, mountPath, dataPath, token string, log *slog.Logger) (*VaultStore, error) {
	config := api.DefaultConfig()
	config.Address = address
	config.Timeout = 30 * time.Second

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vault client: %w", err)
	}
	if token != "" {
		client.SetToken(token)
	}

	mountPath = strings.Trim(mountPath, "/")
	dataPath = strings.Trim(dataPath, "/")

	return &VaultStore{
		client:      client,
		mountPath:   mountPath,
		dataPath:    dataPath,
		log:         log,
		locationURI: fmt.Sprintf("vault://%s/%s/%s", strings.TrimPrefix(address, "https://"), mountPath, dataPath),
	}, nil
}

// FetchSet retrieves the named document from Vault.
// Returns ErrSetNotFound when no secret exists at the derived path.
func (s *VaultStore) FetchSet(ctx context.Context, name interfaces.SetName) ([]byte, error) {
	path := s.secretPath(name)

	secret, err := s.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read from Vault: %w", err)
	}
	if secret == nil || secret.Data == nil {
		return nil, interfaces.ErrSetNotFound
	}

	// KV v2 nests the stored fields under "data".
	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, interfaces.ErrSetNotFound
	}
	encoded, ok := data[vaultDataField].(string)
	if !ok {
		return nil, fmt.Errorf("unexpected Vault secret format at %s", path)
	}

	decoded, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Vault secret: %w", err)
	}

	s.log.Debug("Fetched share set from Vault",
		slog.String("path", path),
		slog.Int("size", len(decoded)))

	return decoded, nil
}

// StoreSet writes the named document to Vault.
func (s *VaultStore) StoreSet(ctx context.Context, name interfaces.SetName, data []byte) error {
	path := s.secretPath(name)

	_, err := s.client.Logical().WriteWithContext(ctx, path, map[string]interface{}{
		"data": map[string]interface{}{
			vaultDataField: base64.StdEncoding.EncodeToString(data),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to write to Vault: %w", err)
	}

	s.log.Debug("Stored share set in Vault",
		slog.String("path", path),
		slog.Int("size", len(data)))

	return nil
}

// Available checks the Vault server's health endpoint.
func (s *VaultStore) Available(ctx context.Context) bool {
	health, err := s.client.Sys().HealthWithContext(ctx)
	if err != nil {
		s.log.Debug("Vault store unavailable", "err", err)
		return false
	}
	return health.Initialized && !health.Sealed
}

// Name returns a unique identifier for this store.
func (s *VaultStore) Name() string {
	return fmt.Sprintf("vault-%s", s.mountPath)
}

// LocationURI returns the URI this store was created from.
func (s *VaultStore) LocationURI() string {
	return s.locationURI
}

func (s *VaultStore) secretPath(name interfaces.SetName) string {
	return fmt.Sprintf("%s/data/%s/%s", s.mountPath, s.dataPath, name)
}
