package sim

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-replay-go/feed"
	"market-replay-go/market"
	"market-replay-go/metrics"
)

func TestBuildSequenceArtificial(t *testing.T) {
	rec := metrics.New(metrics.DefaultConfig())
	seq, err := BuildSequence(context.Background(),
		SourceConfig{Kind: KindArtificial, Features: FeatureConfig{ImbalanceLevels: 3, RealizedVolWindow: 5}},
		linearConfig(),
		Deps{Metrics: rec},
	)
	require.NoError(t, err)
	assert.Equal(t, 11, seq.Len())
	imb, ok := seq.States()[0].MarketVar(market.KeyImbalance)
	require.True(t, ok)
	assert.Equal(t, 0.0, imb)
	_, ok = seq.States()[10].MarketVar(market.KeyRealizedVol)
	assert.True(t, ok)
}

func TestBuildSequenceEventsTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.tsv")
	data := strings.Join([]string{
		"ts\tseq\tsize\tprice\tis_bid\tis_trade",
		"2024-03-01 12:00:01\t1\t1\t99\ttrue\tfalse",
		"2024-03-01 12:00:01\t2\t1\t101\tfalse\tfalse",
		"2024-03-01 12:00:02\t3\t4\t101\tfalse\tfalse",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	seq, err := BuildSequence(context.Background(),
		SourceConfig{Kind: KindEvents, URI: path, SkipHeader: true, Timezone: "UTC"},
		ArtificialConfig{},
		Deps{},
	)
	require.NoError(t, err)
	require.Equal(t, 2, seq.Len())
	assert.Equal(t, []market.Entry{market.NewEntry(101, 5)}, seq.States()[1].Sellers())
}

func TestBuildSequenceFlatWithRelativeVolume(t *testing.T) {
	layout := feed.FlatLayout{
		TradePrice: 0, Volume: 1,
		BidPrices: []int{2}, BidQtys: []int{3},
		AskPrices: []int{4}, AskQtys: []int{5},
		Timestamp: 6,
	}
	path := filepath.Join(t.TempDir(), "flat.tsv")
	data := "10\t0\t9\t1\t11\t1\t2024-03-01 00:00:00\n10\t10\t9\t1\t11\t1\t2024-03-01 00:00:01\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	seq, err := BuildSequence(context.Background(),
		SourceConfig{Kind: KindFlat, URI: path, FlatLayout: &layout, Features: FeatureConfig{RelativeVolumeBuckets: 5}},
		ArtificialConfig{},
		Deps{},
	)
	require.NoError(t, err)
	v, ok := seq.States()[1].MarketVar(market.KeyVolumeRelativeTotal)
	require.True(t, ok)
	assert.Equal(t, 5.0, v)
}

func TestBuildSequenceErrors(t *testing.T) {
	ctx := context.Background()
	_, err := BuildSequence(ctx, SourceConfig{Kind: "ticks", URI: "x"}, ArtificialConfig{}, Deps{})
	assert.Error(t, err)

	_, err = BuildSequence(ctx, SourceConfig{Kind: KindFlat, URI: filepath.Join(t.TempDir(), "none.tsv")}, ArtificialConfig{}, Deps{})
	assert.Error(t, err)

	_, err = BuildSequence(ctx, SourceConfig{Kind: KindArtificial}, ArtificialConfig{}, Deps{})
	assert.ErrorIs(t, err, ErrInvalidArtificial)

	_, err = BuildSequence(ctx, SourceConfig{Kind: KindFlat, URI: "x", Timezone: "Mars/Olympus"}, ArtificialConfig{}, Deps{})
	assert.Error(t, err)
}

func TestEventFormat(t *testing.T) {
	assert.Equal(t, "parquet", eventFormat(SourceConfig{URI: "s3://b/day.PARQUET"}))
	assert.Equal(t, "tsv", eventFormat(SourceConfig{URI: "day.tsv"}))
	assert.Equal(t, "parquet", eventFormat(SourceConfig{URI: "day.bin", Format: "Parquet"}))
}
