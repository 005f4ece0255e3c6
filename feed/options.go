// Package feed 将逐行分隔的行情文本文件解析为时间有序的快照序列。
// 支持三种格式：五档平铺快照、JSON 档位快照、逐笔事件流（需重建订单簿）。
package feed

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"go.uber.org/zap"

	"market-replay-go/metrics"
)

// Options are shared by every feed adapter.
type Options struct {
	// TimeLayout is a Go reference layout. Empty means the timestamp format is detected.
	TimeLayout string
	// Location applies to timestamps without a zone. Nil means UTC.
	Location *time.Location
	// SkipHeader drops the first row.
	SkipHeader bool
	Logger     *zap.Logger
	Metrics    *metrics.Recorder
}

func (o Options) log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	loc := o.Location
	if loc == nil {
		loc = time.UTC
	}
	if o.TimeLayout != "" {
		return time.ParseInLocation(o.TimeLayout, s, loc)
	}
	return dateparse.ParseIn(s, loc)
}

func newTSVReader(r io.Reader) *csv.Reader {
	rd := csv.NewReader(r)
	rd.Comma = '\t'
	rd.FieldsPerRecord = -1
	rd.LazyQuotes = true
	return rd
}

// rows calls fn for every record with its 1-based row number.
func (o Options) rows(feed string, r io.Reader, fn func(rec record) error) (int, error) {
	rd := newTSVReader(r)
	n := 0
	for {
		fields, err := rd.Read()
		if err == io.EOF {
			return n, nil
		}
		n++
		if err != nil {
			return n, &ParseError{Feed: feed, Row: n, Err: err}
		}
		if n == 1 && o.SkipHeader {
			continue
		}
		if err := fn(record{feed: feed, row: n, fields: fields, opts: &o}); err != nil {
			return n, err
		}
		o.Metrics.FeedRow(feed)
	}
}

type record struct {
	feed   string
	row    int
	fields []string
	opts   *Options
}

func (r record) fail(column string, err error) error {
	return &ParseError{Feed: r.feed, Row: r.row, Column: column, Err: err}
}

func (r record) field(col int, name string) (string, error) {
	if col < 0 || col >= len(r.fields) {
		return "", r.fail(name, errMissingColumn{col: col, width: len(r.fields)})
	}
	return strings.TrimSpace(r.fields[col]), nil
}

func (r record) float(col int, name string) (float64, error) {
	s, err := r.field(col, name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.fail(name, err)
	}
	return v, nil
}

func (r record) integer(col int, name string) (int64, error) {
	s, err := r.field(col, name)
	if err != nil {
		return 0, err
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	// 部分导出工具把整数写成 "12.0"
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.fail(name, err)
	}
	return int64(f), nil
}

func (r record) flag(col int, name string) (bool, error) {
	s, err := r.field(col, name)
	if err != nil {
		return false, err
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false, r.fail(name, err)
	}
	return v, nil
}

func (r record) stamp(col int, name string) (time.Time, error) {
	s, err := r.field(col, name)
	if err != nil {
		return time.Time{}, err
	}
	ts, err := r.opts.parseTime(s)
	if err != nil {
		return time.Time{}, r.fail(name, err)
	}
	return ts, nil
}
