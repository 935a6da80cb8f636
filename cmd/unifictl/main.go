package main

import (
	"github.com/TeknoVenus/unifi-go/internal/cli"
)

func main() {
	cli.Execute()
}
