package online

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/aztecqt/eventstudy/common"
	"github.com/influxdata/influxdb/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFillIndex(t *testing.T) {
	mi := common.NewMarketIndex()
	rows := []models.Row{
		{
			Name:    "index_exus",
			Tags:    map[string]string{"fic": "DEU"},
			Columns: []string{"time", "ret"},
			Values: [][]interface{}{
				{"2021-10-11T00:00:00Z", json.Number("0.012")},
				{"2021-10-12T00:00:00Z", nil},
			},
		},
	}
	require.NoError(t, fillIndex(mi, rows, "fic"))
	mi = mi.WithRegions(map[string]string{"DEU": "DE"})

	d := time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC)
	v, ok := mi.Lookup("DE", d)
	require.True(t, ok)
	assert.Equal(t, 0.012, v)

	v, ok = mi.Lookup("DE", d.AddDate(0, 0, 1))
	require.True(t, ok)
	assert.True(t, math.IsNaN(v))

	us := []models.Row{{Name: "index_us", Values: [][]interface{}{{"2021-10-11T00:00:00Z", 0.004}}}}
	require.NoError(t, fillIndex(mi, us, ""))
	v, ok = mi.Lookup("US", d)
	require.True(t, ok)
	assert.Equal(t, 0.004, v)
}

func TestFillIndexErrors(t *testing.T) {
	mi := common.NewMarketIndex()
	noTag := []models.Row{{Name: "x", Values: [][]interface{}{{"2021-10-11T00:00:00Z", 0.1}}}}
	assert.Error(t, fillIndex(mi, noTag, "fic"))

	badTime := []models.Row{{Name: "x", Values: [][]interface{}{{"11/10/2021", 0.1}}}}
	assert.Error(t, fillIndex(mi, badTime, ""))

	badValue := []models.Row{{Name: "x", Values: [][]interface{}{{"2021-10-11T00:00:00Z", true}}}}
	assert.Error(t, fillIndex(mi, badValue, ""))
}

func TestObservationRow(t *testing.T) {
	isin, ret, region, firm := " AA0001 ", "1.50%", "de", "7"
	info := int64(101)
	date := time.Date(2021, 10, 11, 15, 0, 0, 0, time.UTC)
	vol := 1200.0

	o, err := observationRow{isin: &isin, infoCode: &info, firmId: &firm, date: &date, ret: &ret, volume: &vol, region: &region}.toObservation()
	require.NoError(t, err)
	assert.Equal(t, "AA0001", o.ISIN)
	assert.Equal(t, 101, o.InfoCode)
	assert.Equal(t, "DE", o.Region)
	assert.Equal(t, time.Date(2021, 10, 11, 0, 0, 0, 0, time.UTC), o.Date)
	assert.InDelta(t, 0.015, o.Return, 1e-15)
	assert.Equal(t, 1200.0, o.Volume)
	assert.True(t, math.IsNaN(o.Close))
	assert.True(t, math.IsNaN(o.Shares))

	bad := "1.5"
	_, err = observationRow{isin: &isin, date: &date, ret: &bad}.toObservation()
	assert.ErrorIs(t, err, common.ErrMalformedReturn)

	_, err = observationRow{isin: &isin}.toObservation()
	assert.ErrorIs(t, err, errMissingKey)

	o, err = observationRow{isin: &isin, date: &date}.toObservation()
	require.NoError(t, err)
	assert.True(t, math.IsNaN(o.Return))
}

func TestObservationQuery(t *testing.T) {
	q := observationQuery("market.daily_cdp")
	assert.Contains(t, q, `FROM "market"."daily_cdp"`)
	assert.Contains(t, q, `"ret"::text`)
}

func TestObjectName(t *testing.T) {
	assert.Equal(t, "runs/abc/return_csr_failed_m1_p10.csv", objectName("runs/abc", "return_csr_failed_m1_p10"))
	assert.Equal(t, "panel_cdp.csv", objectName("", "panel_cdp"))

	s := (&ObjectSink{cfg: MinioConfig{Bucket: "b", Prefix: "runs"}}).WithPrefix("abc")
	assert.Equal(t, "minio:b/runs/abc", s.String())
}

func TestToFloat(t *testing.T) {
	v, err := toFloat(json.Number("1.25"))
	require.NoError(t, err)
	assert.Equal(t, 1.25, v)

	v, err = toFloat("2")
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	v, err = toFloat(nil)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}
