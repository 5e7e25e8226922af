package main

import (
	"errors"
	"fmt"
	"os"

	buildversion "github.com/gwillem/go-buildversion"
	"github.com/jessevdk/go-flags"
)

const defaultCmd = "sign"

type globalOpt struct {
	Verbose []bool `short:"v" long:"verbose" description:"Verbose output (-v progress, -vv per-file details)"`
	Version bool   `long:"version" description:"Print version and exit"`
}

var (
	globalOpts      globalOpt
	cli             = flags.NewParser(&globalOpts, flags.Default)
	simprintVersion = buildversion.String()
)

func main() {
	if len(os.Args) == 2 && os.Args[1] == "--version" {
		fmt.Println("simprint", simprintVersion)
		return
	}
	ensureDefaultCommand(cli, defaultCmd)
	cli.SubcommandsOptional = false
	cli.CommandHandler = func(cmd flags.Commander, args []string) error {
		applyVerbose()
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}
	if _, err := cli.Parse(); err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return
		}
		os.Exit(1)
	}
}

// ensureDefaultCommand inserts cmd when the first argument is not a known
// command, so "simprint file.js" means "simprint sign file.js".
func ensureDefaultCommand(p *flags.Parser, cmd string) {
	if len(os.Args) < 2 {
		return
	}
	for _, c := range p.Commands() {
		if c.Name == os.Args[1] {
			return
		}
	}
	os.Args = append([]string{os.Args[0], cmd}, os.Args[1:]...)
}
