// Command jwtcodec encodes, verifies and inspects signed tokens.
//
// Usage:
//
//	jwtcodec encode --alg HS256 --key SECRET --claims '{"sub":"u1"}' --ttl 1h
//	jwtcodec decode --key SECRET TOKEN
//	jwtcodec inspect TOKEN
//	jwtcodec algs
//
// The key, algorithm and codec settings (leeway, max-token-size,
// allowed-algs, verbose) can also come from JWTCODEC_* environment variables
// or a --config file; flags take precedence.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type command struct {
	name  string
	usage string
	flags func(fs *pflag.FlagSet)
	run   func(env *env, fs *pflag.FlagSet) error
}

// env carries the process streams into a command.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

var commands = []command{
	{"encode", "encode --alg ALG (--key K | --key-file F) --claims JSON|- [--ttl D] [--nbf D] [--jti] [--kid K]", encodeFlags, runEncode},
	{"decode", "decode (--key K | --key-file F) [--unverified] TOKEN|-", decodeFlags, runDecode},
	{"inspect", "inspect TOKEN|-", nil, runInspect},
	{"algs", "algs", nil, runAlgs},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		printUsage(stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}

	var cmd *command
	for i := range commands {
		if commands[i].name == args[0] {
			cmd = &commands[i]
			break
		}
	}
	if cmd == nil {
		fmt.Fprintf(stderr, "jwtcodec: unknown command %q\n", args[0])
		printUsage(stderr)
		return 1
	}

	fs := pflag.NewFlagSet(cmd.name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: jwtcodec %s\n", cmd.usage)
		fs.PrintDefaults()
	}
	addCommonFlags(fs)
	if cmd.flags != nil {
		cmd.flags(fs)
	}

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "jwtcodec: %v\n", err)
		fs.Usage()
		return 1
	}

	if err := cmd.run(&env{stdin: stdin, stdout: stdout, stderr: stderr}, fs); err != nil {
		fmt.Fprintf(stderr, "jwtcodec: %v\n", err)
		return 1
	}
	return 0
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "usage: jwtcodec <command> [flags]")
	fmt.Fprintln(w)
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n", c.usage)
	}
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
