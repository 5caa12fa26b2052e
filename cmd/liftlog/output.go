package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

type printer struct {
	out    io.Writer
	format string
}

func (p printer) print(v any) error {
	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML, "":
		enc := yaml.NewEncoder(p.out)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format: %s", p.format)
	}
}

func (p printer) message(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func outputError(err error) error {
	return cli.Exit(err.Error(), 1)
}
