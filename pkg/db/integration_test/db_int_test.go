package test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"liyu1981.xyz/insole-monitor-service/pkg/common"
	"liyu1981.xyz/insole-monitor-service/pkg/config"
	"liyu1981.xyz/insole-monitor-service/pkg/db"
	"liyu1981.xyz/insole-monitor-service/pkg/models"
)

func TestFileStoreWithEnvPath(t *testing.T) {
	common.SetTestLoggerNop()

	if os.Getenv(common.EnvKeyRunIntegrationTests) != "true" {
		t.Skip("Skipping integration test: RUN_INTEGRATION_TESTS environment variable not set")
	}

	testPath := filepath.Join(t.TempDir(), "insole_test.db")
	t.Setenv(common.EnvKeyIOTDbPath, testPath)

	instance := db.GetInstance(db.UseSqliteDialector())
	require.NotNil(t, instance)
	require.NotNil(t, instance.Conn)

	_, err := os.Stat(testPath)
	require.NoError(t, err, "expected database file at %s", testPath)

	deviceID := uuid.NewString()

	th := config.Default()
	th.PressureWarningKPa = 45
	require.NoError(t, instance.UpsertDeviceConfig(deviceID, th))

	got, err := instance.GetDeviceConfig(deviceID)
	require.NoError(t, err)
	assert.Equal(t, th, got)

	summary := models.DailySummary{
		Date:           "2026-10-19",
		ReadingCount:   12,
		AverageScore:   41.5,
		HighestScore:   66,
		LowestScore:    20,
		FirstReadingAt: time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
		LastReadingAt:  time.Date(2026, 10, 19, 23, 59, 0, 0, time.UTC),
	}
	require.NoError(t, instance.SaveSummary(deviceID, summary))

	summaries, err := instance.GetSummaries(deviceID, "2026-10-01", "2026-10-31")
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, 12, summaries[0].ReadingCount)
	assert.Equal(t, 66, summaries[0].HighestScore)
	assert.InDelta(t, 41.5, summaries[0].AverageScore, 1e-9)
}
