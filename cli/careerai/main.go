package main

import (
	"os"

	careeraicmder "github.com/careerai/relay/cmd/careerai"
)

func main() {
	cmd := careeraicmder.NewCareerAICmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
