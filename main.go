package main

import (
	"log"

	"github.com/spigell/intervu/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
