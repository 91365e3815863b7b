package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/bwt-network/bwt-daemon/pkg/descriptor"
	"github.com/bwt-network/bwt-daemon/pkg/xpub"
)

var derive = cli.Command{
	Name:      "derive",
	Usage:     "derive addresses from a tagged extended public key or descriptor",
	ArgsUsage: "<xpub or descriptor>",
	Flags: []cli.Flag{
		&cli.UintFlag{
			Name:  "start",
			Usage: "first derivation index",
		},
		&cli.UintFlag{
			Name:  "count",
			Usage: "number of addresses to derive",
			Value: 1,
		},
		&cli.StringFlag{
			Name:  "network",
			Usage: "mainnet, testnet or regtest",
			Value: "mainnet",
		},
	},
	Action: deriveAction,
}

func deriveAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "derive")
	}

	network, err := xpub.ParseNetwork(ctx.String("network"))
	if err != nil {
		return err
	}

	desc, err := parseRanged(ctx.Args().First())
	if err != nil {
		return err
	}

	start := uint32(ctx.Uint("start"))
	count := uint32(ctx.Uint("count"))
	for index := start; index < start+count; index++ {
		child, err := descriptor.Derive(desc, index)
		if err != nil {
			return err
		}
		address, err := descriptor.Address(child, network.ChainParams())
		if err != nil {
			return err
		}
		fmt.Printf("%d %s\n", index, address.EncodeAddress())
	}
	return nil
}

func parseRanged(arg string) (descriptor.Descriptor, error) {
	if key, err := xpub.Parse(arg); err == nil {
		return key.Descriptor(nil), nil
	}
	return descriptor.Parse(arg)
}
