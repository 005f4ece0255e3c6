package feed

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"market-replay-go/history"
	"market-replay-go/market"
)

// flatRow builds a 29 column row in the default flat layout.
func flatRow(ts string, trade, volume float64) string {
	f := make([]string, 29)
	for i := range f {
		f[i] = "0"
	}
	f[0] = "BTCUSDT"
	f[1] = fmt.Sprint(trade)
	f[2] = fmt.Sprint(volume)
	for i := 0; i < 5; i++ {
		f[3+i] = fmt.Sprint(trade - float64(i+1)*0.5)
		f[8+i] = fmt.Sprint(trade + float64(i+1)*0.5)
		f[13+i] = fmt.Sprint(i + 1)
		f[18+i] = fmt.Sprint(10 + i)
	}
	f[23] = "-"
	f[24] = ts
	f[25] = "-"
	f[26] = "100.5"
	f[27] = "12"
	f[28] = "0.25"
	return strings.Join(f, "\t")
}

func TestFlatFeedLoad(t *testing.T) {
	input := strings.Join([]string{
		flatRow("2024-03-01 12:00:00", 100, 3),
		flatRow("2024-03-01 12:00:01.500", 101, 4),
	}, "\n") + "\n"

	seq := history.NewSequence()
	n, err := FlatFeed{ExtraFeatures: true}.Load(strings.NewReader(input), seq)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Equal(t, 2, seq.Len())

	st := seq.States()[1]
	assert.True(t, time.Date(2024, 3, 1, 12, 0, 1, 500_000_000, time.UTC).Equal(st.Timestamp()))
	assert.Equal(t, 101.0, st.TradePrice())
	assert.Equal(t, 4.0, st.Volume())
	require.Len(t, st.Buyers(), 5)
	require.Len(t, st.Sellers(), 5)
	assert.Equal(t, market.NewEntry(100.5, 1), st.Buyers()[0])
	assert.Equal(t, market.NewEntry(101.5, 10), st.Sellers()[0])
	assert.Equal(t, market.NewEntry(103.5, 14), st.Sellers()[4])

	for key, want := range map[string]float64{"mean60": 100.5, "vol60": 12, "std60": 0.25} {
		v, ok := st.MarketVar(key)
		require.True(t, ok, key)
		assert.Equal(t, want, v, key)
	}
}

func TestFlatFeedWithoutExtraFeatures(t *testing.T) {
	seq := history.NewSequence()
	_, err := FlatFeed{}.Load(strings.NewReader(flatRow("2024-03-01 12:00:00", 100, 3)), seq)
	require.NoError(t, err)
	assert.Empty(t, seq.States()[0].Market())
}

func TestFlatFeedCustomLayout(t *testing.T) {
	layout := FlatLayout{
		TradePrice: 0,
		Volume:     1,
		BidPrices:  []int{2},
		BidQtys:    []int{3},
		AskPrices:  []int{4},
		AskQtys:    []int{5},
		Timestamp:  6,
	}
	row := "10\t1\t9.5\t2\t10.5\t3\t1709294400"
	seq := history.NewSequence()
	_, err := FlatFeed{Layout: &layout}.Load(strings.NewReader(row), seq)
	require.NoError(t, err)
	st := seq.States()[0]
	assert.True(t, time.Unix(1709294400, 0).Equal(st.Timestamp()))
	bid, err := st.BestBid()
	require.NoError(t, err)
	assert.Equal(t, 9.5, bid)
}

func TestFlatFeedParseError(t *testing.T) {
	good := flatRow("2024-03-01 12:00:00", 100, 3)
	bad := strings.Replace(flatRow("2024-03-01 12:00:01", 100, 3), "\t3\t", "\tabc\t", 1)
	seq := history.NewSequence()
	_, err := FlatFeed{}.Load(strings.NewReader(good+"\n"+bad), seq)
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 2, pe.Row)
	assert.Equal(t, "volume", pe.Column)
	assert.Equal(t, 0, seq.Len(), "failed load appends nothing")
}

func TestFlatFeedShortRow(t *testing.T) {
	_, err := FlatFeed{}.Load(strings.NewReader("1\t2\t3"), history.NewSequence())
	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "bidPrice1", pe.Column)
	assert.Contains(t, err.Error(), "missing")
}

func TestFlatLayoutValidate(t *testing.T) {
	l := DefaultFlatLayout()
	require.NoError(t, l.Validate())
	l.AskQtys = l.AskQtys[:2]
	assert.Error(t, l.Validate())
	_, err := FlatFeed{Layout: &l}.Load(strings.NewReader(""), history.NewSequence())
	assert.Error(t, err)
}

func TestTimeLayoutOption(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	o := Options{TimeLayout: "02/01/2006 15:04", Location: loc}
	ts, err := o.parseTime("01/03/2024 20:00")
	require.NoError(t, err)
	assert.True(t, ts.Equal(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)))

	_, err = o.parseTime("2024-03-01")
	assert.Error(t, err)
}

func TestFlatFeedExtraColumnErrorIsStable(t *testing.T) {
	layout := DefaultFlatLayout()
	layout.Extra = map[string]int{"vol60": 40, "mean60": 41, "std60": 42}
	row := flatRow("2024-03-01 12:00:00", 100, 3)
	for i := 0; i < 20; i++ {
		_, err := FlatFeed{Layout: &layout, ExtraFeatures: true}.Load(strings.NewReader(row), history.NewSequence())
		var pe *ParseError
		require.True(t, errors.As(err, &pe))
		assert.Equal(t, "mean60", pe.Column)
	}
}
