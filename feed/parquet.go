package feed

import (
	"fmt"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/reader"
)

// parquetEvent 是事件流的 parquet 列式表示，时间戳为毫秒。
type parquetEvent struct {
	Timestamp int64   `parquet:"name=ts, type=INT64, convertedtype=TIMESTAMP_MILLIS"`
	Sequence  int64   `parquet:"name=seq, type=INT64"`
	Size      float64 `parquet:"name=size, type=DOUBLE"`
	Price     float64 `parquet:"name=price, type=DOUBLE"`
	IsBid     bool    `parquet:"name=is_bid, type=BOOLEAN"`
	IsTrade   bool    `parquet:"name=is_trade, type=BOOLEAN"`
}

func (p parquetEvent) event() Event {
	return Event{
		Timestamp: time.UnixMilli(p.Timestamp).UTC(),
		Sequence:  p.Sequence,
		Size:      p.Size,
		Price:     p.Price,
		IsBid:     p.IsBid,
		IsTrade:   p.IsTrade,
	}
}

// ReadParquet reads an event stream stored as a local parquet file.
func (f EventFeed) ReadParquet(path string) ([]Event, error) {
	fr, err := local.NewLocalFileReader(path)
	if err != nil {
		return nil, fmt.Errorf("open parquet %s: %w", path, err)
	}
	defer fr.Close()

	pr, err := reader.NewParquetReader(fr, new(parquetEvent), 1)
	if err != nil {
		return nil, fmt.Errorf("parquet reader %s: %w", path, err)
	}
	defer pr.ReadStop()

	rows := make([]parquetEvent, int(pr.GetNumRows()))
	if len(rows) > 0 {
		if err := pr.Read(&rows); err != nil {
			return nil, fmt.Errorf("read parquet %s: %w", path, err)
		}
	}
	events := make([]Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.event())
		f.Metrics.FeedRow(sourceEvents)
	}
	return events, nil
}
