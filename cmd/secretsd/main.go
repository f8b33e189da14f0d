package main

import (
	"log"

	"github.com/whisperbox/secrets/app"
)

func main() {
	a, err := app.New(app.NewConfig())
	if err != nil {
		log.Fatal(err)
	}

	if err := a.Guide(); err != nil {
		log.Fatal(err)
	}
}
