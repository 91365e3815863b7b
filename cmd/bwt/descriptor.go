package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/bwt-network/bwt-daemon/pkg/descriptor"
	"github.com/bwt-network/bwt-daemon/pkg/xpub"
)

var descriptorCmd = cli.Command{
	Name:      "descriptor",
	Usage:     "bridge between tagged extended public keys and output descriptors",
	ArgsUsage: "<xpub or descriptor>",
	Action:    descriptorAction,
}

func descriptorAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.ShowCommandHelp(ctx, "descriptor")
	}
	arg := ctx.Args().First()

	// a tagged key expands to its wildcard descriptor, a descriptor folds
	// back into its tagged key when the script type allows it
	if key, err := xpub.Parse(arg); err == nil {
		fmt.Println(key.Descriptor(nil))
		return nil
	}

	desc, err := descriptor.Parse(arg)
	if err != nil {
		return err
	}
	key, ok := xpub.FromDescriptor(desc)
	if !ok {
		return fmt.Errorf("descriptor %s has no tagged key equivalent", desc)
	}
	fmt.Println(key)
	return nil
}
