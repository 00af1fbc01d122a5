package main

import (
	"github.com/andrescamacho/eveindustry-go/internal/adapters/cli"
)

func main() {
	cli.Execute()
}
