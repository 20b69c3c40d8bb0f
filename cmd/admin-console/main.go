package main

import (
	"log"

	"github.com/psds-microservice/admin-console/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
