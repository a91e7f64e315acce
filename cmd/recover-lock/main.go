// recover-lock runs the secp256k1 recoverable signature lock against
// transaction fixtures, and builds such fixtures from seeded keys.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/urfave/cli.v1"
)

var (
	logLevelFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level (trace, debug, info, warn, error)",
		Value: "info",
	}
	seedFlag = cli.StringFlag{
		Name:  "seed",
		Usage: "derive the key deterministically from this seed instead of sampling it",
	}
	keyFlag = cli.StringFlag{
		Name:  "key",
		Usage: "hex encoded 32 byte secret key",
	}
	digestFlag = cli.StringFlag{
		Name:  "digest",
		Usage: "hex encoded 32 byte transaction digest",
	}
	outFlag = cli.StringFlag{
		Name:  "out",
		Usage: "path of the fixture file to write",
	}
	flipRecoveryIDFlag = cli.BoolFlag{
		Name:  "flip-recovery-id",
		Usage: "write the wrong recovery id, producing a fixture the lock rejects",
	}
	concurrencyFlag = cli.IntFlag{
		Name:  "concurrency",
		Usage: "maximum number of fixtures verified at once (0 for no limit)",
		Value: 4,
	}
)

func newApp(stdout, stderr io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = "recover-lock"
	app.Usage = "secp256k1 recoverable signature lock"
	app.Writer = stdout
	app.ErrWriter = stderr
	app.Flags = []cli.Flag{logLevelFlag}
	app.Commands = []cli.Command{
		{
			Name:   "keygen",
			Usage:  "print a secret key, its public key and fingerprint",
			Flags:  []cli.Flag{keyFlag, seedFlag},
			Action: keygen,
		},
		{
			Name:   "sign",
			Usage:  "print the witness lock signing a digest",
			Flags:  []cli.Flag{keyFlag, seedFlag, digestFlag},
			Action: sign,
		},
		{
			Name:   "fixture",
			Usage:  "write a transaction fixture locked by a key and signed by it",
			Flags:  []cli.Flag{keyFlag, seedFlag, digestFlag, outFlag, flipRecoveryIDFlag},
			Action: fixture,
		},
		{
			Name:      "verify",
			Usage:     "run the lock on transaction fixtures",
			ArgsUsage: "FILE...",
			Flags:     []cli.Flag{concurrencyFlag},
			Action:    verify,
		},
	}
	return app
}

func newLogger(ctx *cli.Context) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(ctx.GlobalString(logLevelFlag.Name))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level: %w", err)
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: ctx.App.ErrWriter}).
		Level(level).
		With().
		Timestamp().
		Str("command", ctx.Command.Name).
		Logger(), nil
}

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
