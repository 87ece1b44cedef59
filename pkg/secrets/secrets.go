// Package secrets resolves configuration values that point at Google Secret
// Manager instead of holding the secret itself.
package secrets

import (
	"context"
	"fmt"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Prefix marks a value as a Secret Manager reference:
// sm://projects/<project>/secrets/<name>[/versions/<version>].
const Prefix = "sm://"

type accessFunc func(ctx context.Context, name string) (string, error)

// Resolver swaps sm:// references for their secret payload. The Secret
// Manager client is only created once a reference is actually seen.
type Resolver struct {
	mu     sync.Mutex
	client *secretmanager.Client
	access accessFunc
}

func NewResolver() *Resolver {
	r := &Resolver{}
	r.access = r.accessSecretManager
	return r
}

// Resolve returns value unchanged unless it is an sm:// reference.
func (r *Resolver) Resolve(ctx context.Context, value string) (string, error) {
	if !strings.HasPrefix(value, Prefix) {
		return value, nil
	}
	name, err := resourceName(value)
	if err != nil {
		return "", err
	}
	secret, err := r.access(ctx, name)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", name, err)
	}
	return secret, nil
}

// ResolveAll resolves every pointer in place, stopping at the first failure.
func (r *Resolver) ResolveAll(ctx context.Context, values ...*string) error {
	for _, v := range values {
		if v == nil {
			continue
		}
		resolved, err := r.Resolve(ctx, *v)
		if err != nil {
			return err
		}
		*v = resolved
	}
	return nil
}

// Close releases the Secret Manager client if one was opened.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.client == nil {
		return nil
	}
	err := r.client.Close()
	r.client = nil
	return err
}

func (r *Resolver) accessSecretManager(ctx context.Context, name string) (string, error) {
	r.mu.Lock()
	if r.client == nil {
		c, err := secretmanager.NewClient(ctx)
		if err != nil {
			r.mu.Unlock()
			return "", fmt.Errorf("failed to create Secret Manager client: %w", err)
		}
		r.client = c
	}
	client := r.client
	r.mu.Unlock()

	result, err := client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("failed to access secret version: %w", err)
	}
	return strings.TrimSpace(string(result.Payload.Data)), nil
}

func resourceName(ref string) (string, error) {
	name := strings.Trim(strings.TrimPrefix(ref, Prefix), "/")
	parts := strings.Split(name, "/")
	switch {
	case len(parts) == 4 && parts[0] == "projects" && parts[2] == "secrets":
		return name + "/versions/latest", nil
	case len(parts) == 6 && parts[0] == "projects" && parts[2] == "secrets" && parts[4] == "versions":
		return name, nil
	default:
		return "", fmt.Errorf("malformed secret reference %q", ref)
	}
}
