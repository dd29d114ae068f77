package main

import (
	"os"

	"github.com/gophilo/gophilo/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
