package storage_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/work-tracker/internal/model"
	"github.com/Tiliavir/work-tracker/internal/storage"
)

func TestRepositoryLoadEmpty(t *testing.T) {
	repo := storage.NewRepository(storage.NewMemoryStore())
	records := repo.Load(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRepositorySaveAndLoad(t *testing.T) {
	ctx := context.Background()
	repo := storage.NewRepository(storage.NewMemoryStore())

	in := []model.WorkRecord{
		{ID: "1", Date: "2026-10-12", WorkType: model.WorkTypeWork, ClockIn: model.StringPtr("09:00"), ClockOut: model.StringPtr("18:00"), TotalHours: model.FloatPtr(8)},
		{ID: "2", Date: "2026-10-13", WorkType: model.WorkTypeAnnualLeave, TotalHours: model.FloatPtr(8)},
	}
	require.NoError(t, repo.Save(ctx, in))
	assert.Equal(t, in, repo.Load(ctx))
}

func TestRepositoryMigratesLegacyRecordsOnce(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	legacy := `[{"id":"1","date":"2026-10-12","clockIn":"09:00","clockOut":"18:00","totalHours":9},
	            {"id":"2","date":"2026-10-13","workType":"morning_half","totalHours":4}]`
	require.NoError(t, store.Set(ctx, storage.RecordsKey, []byte(legacy)))
	writes := store.Writes

	repo := storage.NewRepository(store)
	records := repo.Load(ctx)
	require.Len(t, records, 2)
	assert.Equal(t, model.WorkTypeWork, records[0].WorkType)
	assert.Equal(t, model.WorkTypeMorningHalf, records[1].WorkType)
	assert.Equal(t, writes+1, store.Writes, "migration writes back once")

	again := repo.Load(ctx)
	assert.Equal(t, records, again)
	assert.Equal(t, writes+1, store.Writes, "already migrated data is not rewritten")
}

func TestMigrateIdempotent(t *testing.T) {
	in := []model.WorkRecord{{ID: "1", Date: "2026-10-12"}, {ID: "2", Date: "2026-10-13", WorkType: model.WorkTypeAnnualLeave}}

	once, changed := storage.Migrate(in)
	assert.True(t, changed)
	twice, changed := storage.Migrate(once)
	assert.False(t, changed)
	assert.Equal(t, once, twice)
	assert.Equal(t, model.WorkType(""), in[0].WorkType, "input slice is left untouched")
}

func TestRepositoryCorruptDataIsBackedUp(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemoryStore()
	require.NoError(t, store.Set(ctx, storage.RecordsKey, []byte("{bad json")))

	records := storage.NewRepository(store).Load(ctx)
	assert.Empty(t, records)

	backup, err := store.Get(ctx, storage.RecordsKey+".corrupt")
	require.NoError(t, err)
	assert.Equal(t, "{bad json", string(backup))
}

func TestRepositoryReadErrorYieldsEmpty(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailGet = errors.New("disk on fire")

	records := storage.NewRepository(store).Load(context.Background())
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestRepositorySaveError(t *testing.T) {
	store := storage.NewMemoryStore()
	store.FailSet = errors.New("read-only")

	err := storage.NewRepository(store).Save(context.Background(), nil)
	assert.ErrorContains(t, err, "read-only")
}
