// Package main is the entry point for syncwatch.
package main

import (
	"github.com/samber/lo"
	"github.com/syncwatch-cli/syncwatch/catalog"
	"github.com/syncwatch-cli/syncwatch/cmd"
	"github.com/syncwatch-cli/syncwatch/config"
	"github.com/syncwatch-cli/syncwatch/log"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	go catalog.CollectGarbage()

	cmd.Execute()
}
