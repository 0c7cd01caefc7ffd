// Package backtest implements the deterministic simulator backend: the
// multi-granularity resampler with best-source dataset selection and the
// rules-based order matching engine.
package backtest

import (
	"github.com/quantarc/tradegate/internal/types"
	"github.com/quantarc/tradegate/pkg/errors"
)

// SelectDataset picks which stored dataset to condense for the requested
// interval. A dataset is eligible only if its granularity is not coarser
// than requested and the requested interval is an exact integer multiple of
// it. An eligible dataset matching the request exactly wins outright;
// otherwise the eligible dataset with the largest per-bar duration is
// preferred, since it needs the fewest rows to produce one output bar.
func SelectDataset(datasets []types.Dataset, requested types.Interval) (types.Dataset, error) {
	requestedSeconds := requested.Seconds()
	if requestedSeconds <= 0 {
		return types.Dataset{}, errors.Newf(errors.ErrCodeInvalidInterval,
			"invalid requested interval %d %s", requested.Duration, requested.Unit)
	}

	var (
		best  types.Dataset
		found bool
	)

	for _, dataset := range datasets {
		sourceSeconds := dataset.Interval.Seconds()
		if sourceSeconds <= 0 || sourceSeconds > requestedSeconds {
			continue
		}

		if requestedSeconds%sourceSeconds != 0 {
			continue
		}

		if sourceSeconds == requestedSeconds {
			return dataset, nil
		}

		if !found || sourceSeconds > best.Interval.Seconds() {
			best = dataset
			found = true
		}
	}

	if !found {
		return types.Dataset{}, errors.Newf(errors.ErrCodeNoDatasource,
			"no dataset can build %d %s bars", requested.Duration, requested.Unit)
	}

	return best, nil
}
