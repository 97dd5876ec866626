// Package main is the bgknode command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/bgkoctomap/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
