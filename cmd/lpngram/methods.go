package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/tresoldi/lpngram/pkg/smoothing"
)

var methodDescriptions = map[smoothing.Method]string{
	smoothing.MethodMLE:              "relative frequency, unseen events get zero",
	smoothing.MethodUniform:          "1/bins for every event",
	smoothing.MethodRandom:           "random normalized weights (use --seed to reproduce)",
	smoothing.MethodLaplace:          "add-one",
	smoothing.MethodELE:              "expected likelihood estimation, add one half",
	smoothing.MethodLidstone:         "add --gamma",
	smoothing.MethodCertaintyDegree:  "interpolates MLE and uniform by sample certainty",
	smoothing.MethodWittenBell:       "reserves T/(N+T) for unseen events",
	smoothing.MethodSimpleGoodTuring: "Gale-Sampson Simple Good-Turing (--confidence)",
}

func methodsCmd() *cli.Command {
	return &cli.Command{
		Name:  "methods",
		Usage: "List the available smoothing methods",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			for _, m := range smoothing.Methods() {
				fmt.Printf("%-16s %s\n", m, methodDescriptions[m])
			}
			return nil
		},
	}
}
