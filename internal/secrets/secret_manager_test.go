package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccessor map[string]string

func (f fakeAccessor) Access(_ context.Context, name string) (string, error) {
	return f[name], nil
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	accessor := fakeAccessor{"session-key": "from-manager"}

	v, err := Resolve(ctx, accessor, "inline", "session-key")
	require.NoError(t, err)
	assert.Equal(t, "inline", v)

	v, err = Resolve(ctx, accessor, "", "session-key")
	require.NoError(t, err)
	assert.Equal(t, "from-manager", v)

	_, err = Resolve(ctx, accessor, "", "")
	assert.ErrorIs(t, err, ErrMissing)

	_, err = Resolve(ctx, nil, "", "session-key")
	assert.Error(t, err)
}

func TestNewSecretManagerRequiresProject(t *testing.T) {
	_, err := NewSecretManager(context.Background(), "")
	assert.Error(t, err)
}
