package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"github.com/google/subcommands"
)

// Version prints the program version.
type Version struct {
	out     io.Writer
	version string
}

func NewVersion(out io.Writer, version string) *Version {
	return &Version{out: out, version: version}
}

func (*Version) Name() string             { return "version" }
func (*Version) Synopsis() string         { return "Print the coinfolio version." }
func (*Version) Usage() string            { return "version\n" }
func (*Version) SetFlags(_ *flag.FlagSet) {}

func (v *Version) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	fmt.Fprintln(v.out, v.version)
	return subcommands.ExitSuccess
}
