// Command featrank detects outliers, ranks features of two-class datasets
// and aggregates rankings.
//
//	featrank rank data.csv labels.txt --method t_stat
//	featrank ensemble data.npy labels.txt --methods relieff,wilcoxon --resamples 50
package main

import (
	"os"

	"github.com/KyungWonPark/featrank/cmd/featrank/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
