package main

import (
	"github.com/urfave/cli/v2"

	"github.com/bwt-network/bwt-daemon/pkg/xpub"
)

var convert = cli.Command{
	Name:      "convert",
	Usage:     "inspect a SLIP-132 tagged extended public key",
	ArgsUsage: "<xpub|ypub|zpub|tpub|upub|vpub>",
	Action:    convertAction,
}

func convertAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "convert")
	}

	key, err := xpub.Parse(ctx.Args().First())
	if err != nil {
		return err
	}

	printJSON(map[string]interface{}{
		"network":     key.Network().String(),
		"script_type": key.ScriptType().String(),
		"canonical":   key.Key().String(),
		"tagged":      key.String(),
		"descriptor":  key.Descriptor(nil).String(),
	})
	return nil
}
