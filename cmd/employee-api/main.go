package main

import (
	"os"

	"github.com/hashicorp-forge/employee-api/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
