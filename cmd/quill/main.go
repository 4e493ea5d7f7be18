package main

import (
	"os"

	"github.com/ComedicChimera/olive"

	"github.com/funvibe/quill/internal/config"
)

func main() {
	os.Exit(execute(os.Args))
}

// execute runs the quill CLI and returns the process exit code.
func execute(args []string) int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("quill", "quill checks and runs lowered quill modules", true)
	cli.AddSelectorArg("loglevel", "ll", "the log level", false, config.LogLevels)
	cli.AddSelectorArg("color", "c", "when to color output", false, []string{config.ColorAuto, config.ColorAlways, config.ColorNever})
	cli.AddStringArg("config", "cfg", "path to a quill.yaml or quill.toml file", false)

	checkCmd := cli.AddSubcommand("check", "type check a module and print diagnostics", true)
	checkCmd.AddPrimaryArg("module-path", "the IR document (or its directory) to check", true)

	runCmd := cli.AddSubcommand("run", "check and execute a module", true)
	runCmd.AddPrimaryArg("module-path", "the IR document (or its directory) to run", true)
	runCmd.AddStringArg("entry", "e", "the function to call", false)
	runCmd.AddStringArg("args", "a", "comma separated arguments, e.g. 1,2.5,\"s\"", false)
	runCmd.AddFlag("strict", "s", "refuse to run a module with type errors")
	runCmd.AddFlag("no-check", "nc", "skip the type check")

	batchCmd := cli.AddSubcommand("batch", "run many calls of a module concurrently", true)
	batchCmd.AddPrimaryArg("module-path", "the IR document (or its directory) to run", true)
	batchCmd.AddStringArg("calls", "cl", "a YAML list of {entry, args} calls", true)

	dumpCmd := cli.AddSubcommand("dump", "print a module as source text", true)
	dumpCmd.AddPrimaryArg("module-path", "the IR document (or its directory) to print", true)
	dumpCmd.AddFlag("raw", "r", "print the raw IR structure")
	dumpCmd.AddFlag("types", "t", "list every expression with its inferred type")

	cli.AddSubcommand("version", "print the quill version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, args)
	if err != nil {
		PrintErrorMessage("CLI Usage Error", err)
		return 2
	}

	opts, err := loadOptions(result)
	if err != nil {
		PrintErrorMessage("Config Error", err)
		return 1
	}
	setupColor(opts.Config.Color)

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "check":
		return execCheckCommand(subResult, opts)
	case "run":
		return execRunCommand(subResult, opts)
	case "batch":
		return execBatchCommand(subResult, opts)
	case "dump":
		return execDumpCommand(subResult, opts)
	case "version":
		PrintInfoMessage("Quill Version", config.Version)
	}
	return 0
}
