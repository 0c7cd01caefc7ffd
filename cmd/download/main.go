package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"

	"github.com/quantarc/tradegate/internal/logger"
	"github.com/quantarc/tradegate/internal/store"
	"github.com/quantarc/tradegate/internal/types"
)

// barUnit maps a polygon timespan to the unit stored on the dataset.
func barUnit(timespan models.Timespan) (types.BarUnit, error) {
	switch timespan {
	case models.Second:
		return types.BarUnitSecond, nil
	case models.Minute:
		return types.BarUnitMinute, nil
	case models.Hour:
		return types.BarUnitHour, nil
	case models.Day:
		return types.BarUnitDay, nil
	default:
		return "", fmt.Errorf("unsupported timespan %q", timespan)
	}
}

// downloadAction pulls aggregates from Polygon and appends them to a fresh
// dataset in the bar store, one day at a time.
func downloadAction(ctx context.Context, cmd *cli.Command) error {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return fmt.Errorf("POLYGON_API_KEY is not set")
	}

	ticker := cmd.String("ticker")
	startDate := cmd.Timestamp("start")
	endDate := cmd.Timestamp("end")
	multiplier := int(cmd.Int("multiplier"))
	timespan := models.Timespan(cmd.String("timespan"))
	dbPath := cmd.String("db")

	unit, err := barUnit(timespan)
	if err != nil {
		return err
	}

	lg, err := logger.NewLogger()
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer lg.Sync()

	db, err := store.NewDuckDB(dbPath, lg)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Initialize(); err != nil {
		return err
	}

	datasetID, err := db.CreateDataset(types.Dataset{
		Symbol:   ticker,
		Interval: types.Interval{Duration: int64(multiplier), Unit: unit},
		Start:    startDate,
		End:      endDate,
	})
	if err != nil {
		return err
	}

	client := polygon.New(apiKey)

	totalDays := int(endDate.Sub(startDate).Hours()/24) + 1
	bar := progressbar.New(totalDays)

	total := 0

	for date := startDate; !date.After(endDate); date = date.AddDate(0, 0, 1) {
		params := models.ListAggsParams{
			Ticker:     ticker,
			From:       models.Millis(date),
			To:         models.Millis(date.Add(24 * time.Hour).Add(-1 * time.Second)),
			Multiplier: multiplier,
			Timespan:   timespan,
		}

		iter := client.ListAggs(ctx, &params)

		var bars []types.Bar

		for iter.Next() {
			agg := iter.Item()
			bars = append(bars, types.Bar{
				Symbol: ticker,
				Time:   time.Time(agg.Timestamp).UTC(),
				Open:   agg.Open,
				High:   agg.High,
				Low:    agg.Low,
				Close:  agg.Close,
				Volume: agg.Volume,
			})
		}

		if iter.Err() != nil {
			return fmt.Errorf("failed to list aggregates for %s: %w", date.Format("2006-01-02"), iter.Err())
		}

		if len(bars) > 0 {
			if err := db.AppendBars(datasetID, bars); err != nil {
				return err
			}

			total += len(bars)
		}

		bar.Add(1)
	}

	log.Printf("Downloaded %d bars for %s into dataset %s", total, ticker, datasetID)

	return nil
}

func main() {
	cmd := &cli.Command{
		Name:  "download",
		Usage: "Download historical bars into the bar store",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "ticker",
				Aliases:  []string{"t"},
				Usage:    "Stock ticker symbol",
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "start",
				Aliases: []string{"s"},
				Usage:   "Start date in `YYYY-MM-DD` format",
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
				Required: true,
			},
			&cli.TimestampFlag{
				Name:    "end",
				Aliases: []string{"e"},
				Usage:   "End date in `YYYY-MM-DD` format. Defaults to today.",
				Value:   time.Now(),
				Config: cli.TimestampConfig{
					Layouts: []string{"2006-01-02"},
				},
			},
			&cli.IntFlag{
				Name:    "multiplier",
				Aliases: []string{"m"},
				Usage:   "Bars span this many timespan units",
				Value:   1,
			},
			&cli.StringFlag{
				Name:  "timespan",
				Usage: "Bar timespan: second, minute, hour, day",
				Value: string(models.Minute),
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the DuckDB database file",
				Value:   "data/tradegate.duckdb",
			},
		},
		Action: downloadAction,
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}
