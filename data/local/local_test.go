package local

import (
	"bytes"
	"compress/zlib"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadObservations(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "daily.csv", `ISIN,InfoCode,id,MarketDate,close,ret,Volume,numshrs,Region
AA0001,101,7,2021-10-08,10.5,1.50%,1200,100000,DE
AA0001,101,7,2021-10-11,10.6,abc,1300,100000,DE
AA0001,101,7,2021-10-12,10.7,,1300,100000,DE
BB0002,102,8,2021-10-11 00:00:00,20,-0.25%,,,US
,103,9,2021-10-11,1,1%,1,1,US
`)

	obs, err := LoadObservations(path)
	require.NoError(t, err)
	require.Len(t, obs, 3)

	assert.Equal(t, "AA0001", obs[0].ISIN)
	assert.Equal(t, 101, obs[0].InfoCode)
	assert.Equal(t, "7", obs[0].FirmId)
	assert.Equal(t, time.Date(2021, 10, 8, 0, 0, 0, 0, time.UTC), obs[0].Date)
	assert.InDelta(t, 0.015, obs[0].Return, 1e-15)
	assert.Equal(t, 1200.0, obs[0].Volume)
	assert.Equal(t, 100000.0, obs[0].Shares)
	assert.Equal(t, "DE", obs[0].Region)

	// 空收益视为缺失，保留该行
	assert.True(t, math.IsNaN(obs[1].Return))

	assert.Equal(t, "BB0002", obs[2].ISIN)
	assert.InDelta(t, -0.0025, obs[2].Return, 1e-15)
	assert.True(t, math.IsNaN(obs[2].Volume))
	assert.True(t, math.IsNaN(obs[2].Shares))
}

func TestLoadObservationsMissingColumn(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "daily.csv", "ISIN,MarketDate\nAA,2021-10-11\n")
	_, err := LoadObservations(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing column ret")
}

func TestOpenZipOrRawFilePrefersZlib(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "daily.csv")
	writeFile(t, dir, "daily.csv", "ISIN,MarketDate,ret\nRAW,2021-10-11,1%\n")

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	_, err := zw.Write([]byte("isin,marketdate,ret\nZIP,2021-10-11,2%\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path+".zlib", buf.Bytes(), 0o644))

	obs, err := LoadObservations(path)
	require.NoError(t, err)
	require.Len(t, obs, 1)
	assert.Equal(t, "ZIP", obs[0].ISIN)
	assert.InDelta(t, 0.02, obs[0].Return, 1e-15)
}

func TestResolvePath(t *testing.T) {
	defer Init("")
	Init("/data")
	assert.Equal(t, filepath.Join("/data", "a.csv"), ResolvePath("a.csv"))
	assert.Equal(t, "/abs/a.csv", ResolvePath("/abs/a.csv"))
}

func TestLoadEvents(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "media.csv", `ISIN,date,achieved,failed,disappeared,emission_industry_high,type_covid_industry
AA0001,2021-03-04,1,0,0,1,0
AA0001,2021-06-01,0,1,0,1,0
BB0002,2020-01-02,0,0,1,,1
CC0003,,1,0,0,0,0
`)

	events, err := LoadEvents(path, common.EventType_MediaCoverage, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, common.Outcome_Achieved, events[0].Outcome)
	assert.Equal(t, time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC), events[0].EventDate)
	assert.True(t, events[0].FlagIs(common.Flag_Material, 1))
	assert.Equal(t, common.Outcome_Failed, events[1].Outcome)
	assert.Equal(t, common.Outcome_Disappeared, events[2].Outcome)
	assert.False(t, events[2].FlagIs(common.Flag_Material, 0))
	assert.True(t, events[2].FlagIs(common.Flag_CovidIndustry, 1))
	assert.Equal(t, common.EventType_MediaCoverage, events[2].Type)
}

func TestLoadEventsFixedDate(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "sample.csv", `ISIN,type,failed_high_ambition
AA0001,Disappeared High Reduction,
BB0002,failed,1
`)
	release := time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC)
	events, err := LoadEvents(path, common.EventType_CDP2021, release)
	require.NoError(t, err)
	require.Len(t, events, 2)

	assert.Equal(t, release, events[0].EventDate)
	assert.Equal(t, common.Outcome_DisappearedHigh, events[0].Outcome)
	assert.Equal(t, common.Outcome_Failed, events[1].Outcome)
	assert.True(t, events[1].FlagIs(common.Flag_HighAmbition, 1))
}

func TestLoadEventsOutcomeColumnOrder(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "announce.csv", `ISIN,EventDate,lag_behind,disappeared,failed,achieved
AA0001,2021-03-04,1,0,1,1
BB0002,2021-03-04,1,1,0,0
`)

	for i := 0; i < 20; i++ {
		events, err := LoadEvents(path, common.EventType_TargetAnnounce, time.Time{})
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, common.Outcome_Achieved, events[0].Outcome)
		assert.Equal(t, common.Outcome_Disappeared, events[1].Outcome)
	}
}

func TestLoadEventsWithoutLabels(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "csr.csv", "isin,Dates released\nAA0001,2021-04-01\n")

	events, err := LoadEvents(path, common.EventType_CSRReport, time.Time{})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, time.Date(2021, 4, 1, 0, 0, 0, 0, time.UTC), events[0].EventDate)
	assert.Equal(t, common.Outcome_Unknown, events[0].Outcome)
	assert.Empty(t, events[0].Flags)
}

func TestLoadCovariatesKeepsFirst(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "cov.csv", `ISIN,type,emission_industry_high,lag_top10_2020
AA0001,achieved,1,0
AA0001,failed,0,1
BB0002,on track,0,1
`)
	covs, err := LoadCovariates(path)
	require.NoError(t, err)
	require.Len(t, covs, 2)

	assert.Equal(t, common.Outcome_Achieved, covs["AA0001"].Outcome)
	assert.Equal(t, 1, covs["AA0001"].Flags[common.Flag_Material])
	assert.Equal(t, common.Outcome_OnTrack, covs["BB0002"].Outcome)
	assert.Equal(t, 1, covs["BB0002"].Flags[common.LagFlag(common.LagKind_Top10, 2020)])
}

func TestLoadMarketIndex(t *testing.T) {
	dir := t.TempDir()
	exus := writeFile(t, dir, "exus.csv", `date,portret,fic
2021-10-11,0.01,DEU
2021-10-11,-0.02,GBR
2021-10-12,bad,DEU
`)
	link := writeFile(t, dir, "link.csv", "fic,Region\nDEU,DE\nGBR,GB\n")
	us := writeFile(t, dir, "us.csv", "caldt,vwretd\n2021-10-11,0.003\n")

	mi, err := LoadMarketIndex(exus, link, us)
	require.NoError(t, err)

	d := time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC)
	v, ok := mi.Lookup("DE", d)
	require.True(t, ok)
	assert.Equal(t, 0.01, v)

	v, ok = mi.Lookup("GB", d)
	require.True(t, ok)
	assert.Equal(t, -0.02, v)

	v, ok = mi.Lookup("CA", d)
	require.True(t, ok)
	assert.Equal(t, 0.003, v)

	_, ok = mi.Lookup("DE", d.AddDate(0, 0, 1))
	assert.False(t, ok)

	_, err = LoadMarketIndex("", "", "")
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "daily.csv", "ISIN,MarketDate,ret\nAA0001,2021-10-11,1%\n")
	writeFile(t, dir, "sample.csv", "ISIN,type\nAA0001,failed\n")

	defer Init("")
	Init(dir)
	release := time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC)
	s := &Store{
		Files: map[common.EventType]EventFiles{
			common.EventType_CDP2021: {Observations: "daily.csv", Covariates: "sample.csv"},
		},
		ReleaseDates: map[common.EventType]time.Time{common.EventType_CDP2021: release},
	}

	ctx := context.Background()
	obs, err := s.LoadObservations(ctx, common.EventType_CDP2021)
	require.NoError(t, err)
	assert.Len(t, obs, 1)

	events, err := s.LoadEvents(ctx, common.EventType_CDP2021)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, release, events[0].EventDate)

	covs, err := s.LoadCovariates(ctx, common.EventType_CDP2021)
	require.NoError(t, err)
	assert.Contains(t, covs, "AA0001")

	_, err = s.LoadObservations(ctx, common.EventType_MediaCoverage)
	assert.Error(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = s.LoadEvents(cancelled, common.EventType_CDP2021)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	df := dataframe.New(
		series.New([]int{-1, 0}, series.Int, "NEWDaysRelativeToEvent"),
		series.New([]float64{0.5, 1.5}, series.Float, "CAAR_logPct"),
	)

	sink := FileSink{Dir: dir}
	require.NoError(t, sink.Write(context.Background(), "return_csr_failed_m1_p10", df))

	b, err := os.ReadFile(filepath.Join(dir, "return_csr_failed_m1_p10.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(b), "NEWDaysRelativeToEvent,CAAR_logPct")
	assert.Contains(t, string(b), "\n-1,")
}
