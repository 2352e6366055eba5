package main

import (
	"log"
	"os"

	"github.com/boydthomson/android-immich-clear/cmd"
	"github.com/boydthomson/android-immich-clear/config"
)

func main() {
	cnf, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration %s", err.Error())
	}
	if err := cmd.Execute(cnf); err != nil {
		os.Exit(1)
	}
}
