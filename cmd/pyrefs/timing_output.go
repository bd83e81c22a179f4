package main

import (
	"fmt"
	"io"

	"pyrefs/internal/driver"
	"pyrefs/internal/observ"
)

// printTimings writes phase timings to out: a JSON document when the
// records themselves are JSON, one line per phase otherwise.
func printTimings(out io.Writer, res *driver.Result, asJSON bool) error {
	if asJSON {
		data, err := driver.TimingJSON(res)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := io.WriteString(out, res.Timing.Summary())
	return err
}

// printScanTimings sums per-file timings of a directory scan.
func printScanTimings(out io.Writer, results []driver.FileResult) error {
	reports := make([]observ.Report, 0, len(results))
	for _, r := range results {
		if r.Result != nil && !r.Result.Cached {
			reports = append(reports, r.Result.Timing)
		}
	}
	_, err := io.WriteString(out, observ.Sum(reports...).Summary())
	return err
}
