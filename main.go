package main

import (
	"log"

	"yatube/backend/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		log.Fatalf("[yatube] %v", err)
	}
}
