// Package secrets reads signing keys from Google Secret Manager.
package secrets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// ErrMissing is returned when neither a value nor a secret name is configured.
var ErrMissing = errors.New("secret is not configured")

// Accessor reads the latest version of a named secret.
type Accessor interface {
	Access(ctx context.Context, name string) (string, error)
}

// SecretManager implements Accessor with the Secret Manager API.
type SecretManager struct {
	client    *secretmanager.Client
	projectID string
}

func NewSecretManager(ctx context.Context, projectID string, opts ...option.ClientOption) (*SecretManager, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is required for Secret Manager")
	}
	client, err := secretmanager.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}
	return &SecretManager{client: client, projectID: projectID}, nil
}

// Access returns the latest version of name. A fully qualified resource name is used as is.
func (s *SecretManager) Access(ctx context.Context, name string) (string, error) {
	resourceName := name
	if !strings.HasPrefix(name, "projects/") {
		resourceName = fmt.Sprintf("projects/%s/secrets/%s/versions/latest", s.projectID, name)
	}
	result, err := s.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{
		Name: resourceName,
	})
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", name, err)
	}
	return string(result.Payload.Data), nil
}

func (s *SecretManager) Close() error {
	return s.client.Close()
}

// Resolve returns value when set, otherwise reads the secret called name.
func Resolve(ctx context.Context, accessor Accessor, value, name string) (string, error) {
	if value != "" {
		return value, nil
	}
	if name == "" {
		return "", ErrMissing
	}
	if accessor == nil {
		return "", fmt.Errorf("secret %s requested but Secret Manager is not configured", name)
	}
	return accessor.Access(ctx, name)
}
