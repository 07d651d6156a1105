package studylib

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
name = "cdp"
workers = 3
data_path = "/data"
export_datasets = true

[events.cdp2021]
observations = "daily_cdp.csv"
covariates = "final_firm_level_broader_sample.csv"

[events.media]
observations = "daily_media.csv"
events = "media_dates.csv"

[release_dates]
cdp2021 = "2021-10-12"

[exclude]
media = ["XS0001", "XS0002"]

[index]
kind = "csv"
exus = "index_exus.csv"
link = "country_codes.csv"
us = "index_us.csv"

[sink]
kind = "file"
dir = "~/eventstudy_out"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eventstudy.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLaunchConfig(t *testing.T) {
	t.Setenv("EVENTSTUDY_WORKERS", "2")
	t.Setenv("EVENTSTUDY_LOG_LEVEL", "debug")

	lc, err := LoadLaunchConfig(writeConfig(t, testConfig))
	require.NoError(t, err)

	assert.Equal(t, "cdp", lc.Name)
	assert.Equal(t, 2, lc.Workers)
	assert.Equal(t, "debug", lc.LogLevel)
	assert.True(t, lc.ExportDatasets)
	assert.True(t, lc.Panels)
	assert.Equal(t, 365, lc.MaxOffset)
	assert.Equal(t, SourceKind_CSV, lc.Securities)
	assert.Equal(t, "final_firm_level_broader_sample.csv", lc.Events["cdp2021"].Covariates)
	assert.Equal(t, []string{"XS0001", "XS0002"}, lc.Exclude["media"])
	assert.False(t, strings.HasPrefix(lc.Sink.Dir, "~"))

	assert.Equal(t, []common.EventType{common.EventType_MediaCoverage, common.EventType_CDP2021}, lc.EventTypes())
	assert.Equal(t, time.Date(2021, 10, 12, 0, 0, 0, 0, time.UTC), lc.ReleaseDate(common.EventType_CDP2021))
	assert.Equal(t, time.Date(2019, 10, 31, 0, 0, 0, 0, time.UTC), lc.ReleaseDate(common.EventType_CDP2019))
	assert.True(t, lc.ReleaseDate(common.EventType_MediaCoverage).IsZero())
}

func TestLoadLaunchConfigErrors(t *testing.T) {
	_, err := LoadLaunchConfig(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	_, err = LoadLaunchConfig(writeConfig(t, "workers = ["))
	assert.Error(t, err)

	_, err = LoadLaunchConfig(writeConfig(t, testConfig+"\n[events.foo]\nobservations = \"x.csv\"\n"))
	assert.ErrorIs(t, err, ErrUnknownEventType)
}

func TestValidate(t *testing.T) {
	valid := func() *LaunchConfig {
		lc := NewDefaultLaunchConfig()
		lc.Index.US = "us.csv"
		return lc
	}
	require.NoError(t, valid().Validate())

	lc := valid()
	lc.Workers = 0
	assert.Error(t, lc.Validate())

	lc = valid()
	lc.Securities = SourceKind_Postgres
	assert.Error(t, lc.Validate())
	lc.Postgres.DSN = "postgres://localhost/eventstudy"
	assert.NoError(t, lc.Validate())

	lc = valid()
	lc.Index = IndexConfig{Kind: SourceKind_Influx}
	assert.Error(t, lc.Validate())

	lc = valid()
	lc.Sink = SinkConfig{Kind: SinkKind_Minio}
	assert.Error(t, lc.Validate())

	lc = valid()
	lc.ReleaseDates["cdp2020"] = "12/10/2020"
	assert.Error(t, lc.Validate())
}

func TestParseEventTypes(t *testing.T) {
	ets, err := ParseEventTypes(" media, cdp2021 ,")
	require.NoError(t, err)
	assert.Equal(t, []common.EventType{common.EventType_MediaCoverage, common.EventType_CDP2021}, ets)

	_, err = ParseEventTypes("media,news")
	assert.ErrorIs(t, err, ErrUnknownEventType)
}
