package main

import (
	"log"

	"github.com/newrelic/go-easy-annotations/cmd"
)

func main() {
	log.Default().SetFlags(0)
	cmd.Execute()
}
