// Command icqctl runs and inspects an interchain query contract.
package main

import (
	"os"

	"github.com/rs/zerolog/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("icqctl failed")
		os.Exit(1)
	}
}
