package file_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costsheet/internal/domain"
	"github.com/davidbz/costsheet/internal/store/file"
)

func TestStore_LoadMissing(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "pricing.json"))

	data, err := store.Load(context.Background())

	require.ErrorIs(t, err, domain.ErrStoreUnavailable)
	require.Nil(t, data)
}

func TestStore_SaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pricing.json")
	store := file.New(path)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, []byte(`{"meta":{"usd_to_jpy":150},"models":[]}`)))
	require.NoError(t, store.Save(ctx, []byte(`{"meta":{"usd_to_jpy":155},"models":[]}`)))

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.JSONEq(t, `{"meta":{"usd_to_jpy":155},"models":[]}`, string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o644), info.Mode().Perm())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temporary files are left behind")
}

func TestStore_ConcurrentSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	store := file.New(path)
	ctx := context.Background()

	const writers = 16
	payloads := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		payloads[fmt.Sprintf(`{"meta":{"usd_to_jpy":%d},"models":[]}`, 100+i)] = true
	}

	errs := make(chan error, writers)
	var wg sync.WaitGroup
	for payload := range payloads {
		wg.Add(1)
		go func(p string) {
			defer wg.Done()
			errs <- store.Save(ctx, []byte(p))
		}(payload)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	data, err := store.Load(ctx)
	require.NoError(t, err)
	require.True(t, payloads[string(data)], "file holds exactly one complete payload")
}

func TestStore_CancelledContext(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "pricing.json"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.ErrorIs(t, store.Save(ctx, []byte(`{}`)), context.Canceled)
	_, err := store.Load(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestStore_WatchInvalidatesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pricing.json")
	store := file.New(path, file.WithDebounce(10*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, os.WriteFile(path, []byte(`{"v":1}`), 0o600))

	done := make(chan error, 1)
	go func() { done <- store.Watch(ctx) }()
	require.Eventually(t, store.Watching, time.Second, 5*time.Millisecond)

	data, err := store.Load(context.Background())
	require.NoError(t, err)
	require.Equal(t, `{"v":1}`, string(data))

	require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o600))

	require.Eventually(t, func() bool {
		data, err := store.Load(context.Background())
		return err == nil && string(data) == `{"v":2}`
	}, 2*time.Second, 10*time.Millisecond)

	require.ErrorIs(t, store.Watch(context.Background()), file.ErrAlreadyWatching)

	cancel()
	require.NoError(t, <-done)
	require.False(t, store.Watching())
}
