package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/sahaya-relief/camp-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	assert.False(t, repo.Enabled())
	require.NoError(t, repo.Set(ctx, "sahaya:k", map[string]int{"a": 1}, time.Minute))
	require.NoError(t, repo.Delete(ctx, "sahaya:k"))

	var dest map[string]int
	err := repo.Get(ctx, "sahaya:k", &dest)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeCacheMiss))
}
