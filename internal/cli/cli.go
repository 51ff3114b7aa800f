// Package cli wires the CrimeSense subcommands.
package cli

import (
	"fmt"
	"os"

	goflags "github.com/jessevdk/go-flags"
)

// commands holds references to all subcommand structs for inspection/testing.
type commands struct {
	Serve   *ServeCommand
	Report  *ReportCommand
	Record  *RecordCommand
	Contact *ContactCommand
	List    *ListCommand
	Show    *ShowCommand
	Delete  *DeleteCommand
	Stats   *StatsCommand
	Status  *StatusCommand
	Watch   *WatchCommand
	Purge   *PurgeCommand
}

// buildParser constructs the go-flags parser with all subcommands registered.
func buildParser(version string) (*goflags.Parser, *GlobalFlags, *commands) {
	var globals GlobalFlags

	parser := goflags.NewParser(&globals, goflags.Default)
	parser.Name = "crimesense"
	parser.LongDescription = "Local-first crime reporting and records management."

	cmds := &commands{
		Serve:   &ServeCommand{globals: &globals, version: version},
		Report:  &ReportCommand{globals: &globals, version: version},
		Record:  &RecordCommand{globals: &globals, version: version},
		Contact: &ContactCommand{globals: &globals, version: version},
		List:    &ListCommand{globals: &globals, version: version},
		Show:    &ShowCommand{globals: &globals, version: version},
		Delete:  &DeleteCommand{globals: &globals, version: version},
		Stats:   &StatsCommand{globals: &globals, version: version},
		Status:  &StatusCommand{globals: &globals, version: version},
		Watch:   &WatchCommand{globals: &globals, version: version},
		Purge:   &PurgeCommand{globals: &globals, version: version},
	}

	parser.AddCommand("serve", "Start the HTTP API server", "Start the CrimeSense HTTP API server.", cmds.Serve)
	parser.AddCommand("report", "Submit an incident report", "Submit a new incident report.", cmds.Report)
	parser.AddCommand("record", "Add a police record", "Add a new police record entry.", cmds.Record)
	parser.AddCommand("contact", "Send a contact message", "Send a message through the contact channel.", cmds.Contact)
	parser.AddCommand("list", "List reports or records", "List incident reports or police records, with optional filters.", cmds.List)
	parser.AddCommand("show", "Show a single report", "Print the full details of a specific report.", cmds.Show)
	parser.AddCommand("delete", "Delete a report or record", "Delete a report or police record by identifier.", cmds.Delete)
	parser.AddCommand("stats", "Show analytics distributions", "Show report distributions by type, location, and date.", cmds.Stats)
	parser.AddCommand("status", "Show database totals", "Show database totals, schema version, and configuration summary.", cmds.Status)
	parser.AddCommand("watch", "Follow the change marker", "Follow the cross-process change marker and print each update.", cmds.Watch)
	parser.AddCommand("purge", "Delete ALL data", "Delete ALL CrimeSense data. Destructive operation with safety prompt.", cmds.Purge)

	return parser, &globals, cmds
}

// Run is the main entry point for the CrimeSense CLI using os.Args.
func Run(version string) error {
	return RunWithArgs(version, nil)
}

// RunWithArgs parses the given args (or os.Args if nil) and executes the matched subcommand.
func RunWithArgs(version string, args []string) error {
	// Handle --version before parser (go-flags requires a subcommand, but
	// --version is valid without one).
	checkArgs := args
	if checkArgs == nil {
		checkArgs = os.Args[1:]
	}
	for _, arg := range checkArgs {
		if arg == "--version" {
			fmt.Printf("crimesense %s\n", version)
			return nil
		}
		if arg == "--" {
			break
		}
	}

	parser, _, _ := buildParser(version)

	var err error
	if args != nil {
		_, err = parser.ParseArgs(args)
	} else {
		_, err = parser.Parse()
	}

	if err != nil {
		if flagsErr, ok := err.(*goflags.Error); ok {
			if flagsErr.Type == goflags.ErrHelp {
				return nil
			}
		}
		return err
	}

	return nil
}
