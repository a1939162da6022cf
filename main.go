// Package main is the entry point for the omxconductor application.
package main

import (
	"github.com/omxconductor/omxconductor/cmd"
	"github.com/omxconductor/omxconductor/config"
	"github.com/omxconductor/omxconductor/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
