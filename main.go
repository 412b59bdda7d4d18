package main

import (
	"log"

	"github.com/evnav/evnav/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
