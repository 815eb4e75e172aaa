package main

import (
	"os"

	"github.com/kelly1311/app-simulador-examen-az-104/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
