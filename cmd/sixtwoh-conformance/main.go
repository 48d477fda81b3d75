// Command sixtwoh-conformance runs the core against the Harte single-step
// JSON suite or the Klaus Dormann functional test image and reports pass/
// fail counts, in the style of jmchacon/6502's own CLI tools (a small
// urfave/cli.v2 app with one subcommand per job, fatal errors going to the
// standard log package).
package main

import (
	"fmt"
	"log"
	"os"

	"gopkg.in/urfave/cli.v2"

	"github.com/sketchylizard/sixtwoh/conformance"
)

func main() {
	app := &cli.App{
		Name:  "sixtwoh-conformance",
		Usage: "run the 6502 core against third-party conformance suites",
		Commands: []*cli.Command{
			singleStepCommand(),
			klausCommand(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func singleStepCommand() *cli.Command {
	return &cli.Command{
		Name:  "single-step",
		Usage: "run one or more Harte-format single-step JSON fixture files",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print every failing cycle/register diff"},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return cli.Exit("usage: sixtwoh-conformance single-step [--verbose] <testfile.json>...", 1)
			}
			verbose := c.Bool("verbose")
			var total, passed int
			for _, path := range c.Args().Slice() {
				cases, err := conformance.LoadSingleStepFile(path)
				if err != nil {
					return err
				}
				for _, tc := range cases {
					total++
					result := conformance.RunSingleStep(tc)
					if result.Passed() {
						passed++
						continue
					}
					if verbose {
						fmt.Printf("FAIL %s\n", result.Name)
						for _, d := range result.RegisterDiffs {
							fmt.Printf("  %s\n", d)
						}
						for _, d := range result.CycleDiffs {
							fmt.Printf("  %s\n", d)
						}
					}
				}
			}
			fmt.Printf("%d/%d single-step fixtures passed\n", passed, total)
			if passed != total {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}

func klausCommand() *cli.Command {
	return &cli.Command{
		Name:  "klaus",
		Usage: "run the Klaus Dormann functional test image against the core",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Aliases: []string{"d"}, Usage: "directory containing the .bin test images", Value: "testdata"},
			&cli.Uint64Flag{Name: "max-cycles", Usage: "abort a test that never self-traps after this many cycles", Value: 200_000_000},
		},
		Action: func(c *cli.Context) error {
			dir := c.String("dir")
			maxCycles := c.Uint64("max-cycles")
			var failed bool
			for _, test := range conformance.KlausTests {
				result, err := conformance.RunKlaus(test, dir, maxCycles)
				if err != nil {
					return err
				}
				status := "PASS"
				if !result.Passed {
					status = "FAIL"
					failed = true
				}
				fmt.Printf("%-4s %-12s trapped at 0x%.4X after %d cycles (want 0x%.4X)\n",
					status, result.Test.Name, result.TrapPC, result.Cycles, result.Test.SuccessPC)
			}
			if failed {
				return cli.Exit("", 1)
			}
			return nil
		},
	}
}
