// Command fitsyncctl imports exports and activity files, syncs Hevy and prints
// reports against either the postgres cache or a local sqlite file.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Errorf("fitsyncctl: %s", err)
		os.Exit(1)
	}
}
