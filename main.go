package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

func main() {
	ctx := context.Background()

	var timeout time.Duration
	var trace bool
	var prompt string
	var connect string
	var load stringList
	flag.DurationVar(&timeout, "timeout", 0, "specify a time limit")
	flag.BoolVar(&trace, "trace", false, "enable assembler trace logging")
	flag.StringVar(&prompt, "prompt", "> ", "REPL prompt text")
	flag.StringVar(&connect, "connect", "", "port to connect to at startup (a real port name, or sim:<name> for the in-process simulated device)")
	flag.Var(&load, "load", "source file to load at startup (may be repeated)")
	flag.Parse()

	opts := []DriverOption{
		WithInput(os.Stdin),
		WithOutput(os.Stdout),
		WithPrompt(prompt),
	}
	if trace {
		opts = append(opts, WithLogf(log.Printf))
	}
	d := New(opts...)
	if trace {
		d.doTrace()
	}

	if timeout != 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	for _, path := range load {
		stack := []Node{QuotationNode{TokenNode(path)}}
		if err := d.doLoad(ctx, &stack); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: loading %v: %+v\n", path, err)
			os.Exit(1)
		}
	}
	if connect != "" {
		stack := []Node{QuotationNode{TokenNode(connect)}}
		if err := d.doConnect(&stack); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: connecting to %v: %+v\n", connect, err)
			os.Exit(1)
		}
	}

	if err := d.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}
}

// stringList implements flag.Value for a repeatable -load flag.
type stringList []string

func (l *stringList) String() string { return fmt.Sprint([]string(*l)) }
func (l *stringList) Set(v string) error {
	*l = append(*l, v)
	return nil
}
