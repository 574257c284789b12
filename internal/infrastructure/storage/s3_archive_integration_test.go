//go:build integration

package storage

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startMinio(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "minio/minio:latest",
			ExposedPorts: []string{"9000/tcp"},
			Cmd:          []string{"server", "/data"},
			Env: map[string]string{
				"MINIO_ROOT_USER":     "test-key",
				"MINIO_ROOT_PASSWORD": "test-secret",
			},
			WaitingFor: wait.ForHTTP("/minio/health/ready").WithPort("9000/tcp").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	endpoint, err := container.PortEndpoint(ctx, "9000/tcp", "http")
	require.NoError(t, err)
	return endpoint
}

func TestS3Archive_Integration(t *testing.T) {
	endpoint := startMinio(t)
	ctx := context.Background()

	a, err := NewS3Archive(ctx, testStorageConfig(endpoint))
	require.NoError(t, err)
	require.NoError(t, a.EnsureBucket(ctx))
	require.NoError(t, a.EnsureBucket(ctx), "second call is a no-op")

	key := DocumentKey(uuid.New(), uuid.New(), time.Now())
	exists, err := a.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, a.Put(ctx, key, []byte("%PDF-1.7 archived"), ContentTypePDF))
	exists, err = a.Exists(ctx, key)
	require.NoError(t, err)
	assert.True(t, exists)

	link, _, err := a.DownloadURL(ctx, key, time.Minute)
	require.NoError(t, err)
	resp, err := http.Get(link)
	require.NoError(t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "%PDF-1.7 archived", string(data))

	require.NoError(t, a.Delete(ctx, key))
	exists, err = a.Exists(ctx, key)
	require.NoError(t, err)
	assert.False(t, exists)
}
