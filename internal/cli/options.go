package cli

import (
	"fmt"

	"github.com/spf13/pflag"
)

// OptionState distinguishes an option the user never mentioned from one
// supplied bare and one supplied with a value.
type OptionState int

const (
	// OptionAbsent means the flag was not given.
	OptionAbsent OptionState = iota
	// OptionFlagSet means the flag was given without a value (bool flags).
	OptionFlagSet
	// OptionValueSet means the flag was given with a value.
	OptionValueSet
)

// Option is a tri-state command-line option.
type Option struct {
	state OptionState
	value string
}

// Present reports whether the flag appeared on the command line.
func (o Option) Present() bool {
	return o.state != OptionAbsent
}

// Value returns the option's value; empty unless OptionValueSet.
func (o Option) Value() string {
	return o.value
}

// State returns the option's state.
func (o Option) State() OptionState {
	return o.state
}

// stringOption reads a string flag as a tri-state option.
func stringOption(fs *pflag.FlagSet, name string) Option {
	if !fs.Changed(name) {
		return Option{}
	}
	v, _ := fs.GetString(name)
	return Option{state: OptionValueSet, value: v}
}

// boolOption reads a bool flag as a tri-state option.
func boolOption(fs *pflag.FlagSet, name string) Option {
	if !fs.Changed(name) {
		return Option{}
	}
	if v, _ := fs.GetBool(name); !v {
		return Option{}
	}
	return Option{state: OptionFlagSet}
}

// Action is the single operation one invocation performs.
type Action int

const (
	// ActionHelp prints usage and exits successfully.
	ActionHelp Action = iota
	// ActionCreateTable creates the users table and exits.
	ActionCreateTable
	// ActionImport runs the import pipeline.
	ActionImport
)

// Options is the resolved result of flag parsing for one run.
type Options struct {
	Action       Action
	File         string
	DryRun       bool
	ForceConnect bool
}

// resolveOptions maps raw flags onto a single action, rejecting invalid
// combinations before any file or database access happens.
func resolveOptions(fs *pflag.FlagSet) (*Options, error) {
	fileOpt := stringOption(fs, "file")
	createTable := boolOption(fs, "create_table")
	dryRun := boolOption(fs, "dry_run")
	forceConnect := boolOption(fs, "force_connect")

	if createTable.Present() {
		return &Options{Action: ActionCreateTable}, nil
	}

	if dryRun.Present() && !fileOpt.Present() {
		return nil, fmt.Errorf("--dry_run requires --file")
	}

	if fileOpt.Present() {
		if fileOpt.Value() == "" {
			return nil, fmt.Errorf("--file requires a path")
		}
		return &Options{
			Action:       ActionImport,
			File:         fileOpt.Value(),
			DryRun:       dryRun.Present(),
			ForceConnect: forceConnect.Present(),
		}, nil
	}

	return &Options{Action: ActionHelp}, nil
}
