package types

import (
	"time"

	"github.com/quantarc/tradegate/pkg/errors"
)

// BarUnit is the time unit of a bar interval.
type BarUnit string

const (
	BarUnitSecond BarUnit = "sec"
	BarUnitMinute BarUnit = "min"
	BarUnitHour   BarUnit = "hour"
	BarUnitDay    BarUnit = "day"
)

// Seconds returns the number of seconds in one unit.
func (u BarUnit) Seconds() int64 {
	switch u {
	case BarUnitSecond:
		return 1
	case BarUnitMinute:
		return 60
	case BarUnitHour:
		return 3600
	case BarUnitDay:
		return 86400
	default:
		return 0
	}
}

// Interval is a bar granularity: a duration expressed in a unit, e.g. 5 sec or 1 min.
type Interval struct {
	Duration int64   `json:"duration" yaml:"duration" validate:"required,gt=0"`
	Unit     BarUnit `json:"unit" yaml:"unit" validate:"required,oneof=sec min hour day"`
}

// Seconds returns the total length of the interval in seconds.
func (i Interval) Seconds() int64 {
	return i.Duration * i.Unit.Seconds()
}

// Bar is a single candlestick.
type Bar struct {
	Id        string    `json:"id" yaml:"id"`
	Symbol    string    `json:"symbol" yaml:"symbol"`
	DatasetID string    `json:"dataset_id" yaml:"dataset_id"`
	Time      time.Time `json:"time" yaml:"time"`
	Open      float64   `json:"open" yaml:"open"`
	High      float64   `json:"high" yaml:"high"`
	Low       float64   `json:"low" yaml:"low"`
	Close     float64   `json:"close" yaml:"close"`
	Volume    float64   `json:"volume" yaml:"volume"`
}

// Condense combines consecutive source bars into one coarser bar:
// open from the first bar, close from the last, high/low are the extrema,
// volume is the sum. The condensed bar keeps the first bar's timestamp,
// symbol and dataset.
func Condense(bars []Bar) (Bar, error) {
	if len(bars) == 0 {
		return Bar{}, errors.New(errors.ErrCodeInvalidParameter, "cannot condense zero bars")
	}

	out := Bar{
		Id:        bars[0].Id,
		Symbol:    bars[0].Symbol,
		DatasetID: bars[0].DatasetID,
		Time:      bars[0].Time,
		Open:      bars[0].Open,
		High:      bars[0].High,
		Low:       bars[0].Low,
		Close:     bars[len(bars)-1].Close,
		Volume:    0,
	}

	for _, bar := range bars {
		if bar.High > out.High {
			out.High = bar.High
		}

		if bar.Low < out.Low {
			out.Low = bar.Low
		}

		out.Volume += bar.Volume
	}

	return out, nil
}

// Dataset describes a stored bar series for one symbol at one fixed granularity.
// A symbol may own several datasets at different granularities.
type Dataset struct {
	ID       string    `json:"id" yaml:"id"`
	Symbol   string    `json:"symbol" yaml:"symbol" validate:"required"`
	Interval Interval  `json:"interval" yaml:"interval" validate:"required"`
	Start    time.Time `json:"start" yaml:"start"`
	End      time.Time `json:"end" yaml:"end"`
}
