package main

import (
	"github.com/avelkov/godfather/internal/cli"
)

func main() {
	cli.Execute()
}
