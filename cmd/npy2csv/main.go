// Command npy2csv converts a float64 .npy matrix to CSV next to the input.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/KyungWonPark/featrank/internal/io"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if len(os.Args) != 2 {
		log.Fatal().Msg("usage: npy2csv <file.npy>")
	}
	fileName := os.Args[1]

	npyFile, err := io.ReadNpy(fileName)
	if err != nil {
		log.Fatal().Err(err).Str("path", fileName).Msg("failed to read npy file")
	}
	log.Info().Str("path", fileName).Msg("reading npy file complete")

	if err := io.WriteCSV(fileName+".csv", npyFile, nil); err != nil {
		log.Fatal().Err(err).Msg("failed to write csv")
	}
}
