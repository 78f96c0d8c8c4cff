package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/domtree/go-domtree/encode"
	"github.com/domtree/go-domtree/parse"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	Decl  bool `cli:"name=decl desc='emit an xml declaration'"`
	WS    bool `cli:"name=ws desc='keep whitespace-only text'"`
	P     bool `cli:"name=p aliases=permissive desc='let unknown entity references pass through'"`
	Lossy bool `cli:"name=lossy desc='replace undecodable bytes instead of failing'"`

	Indent   int
	Encoding string

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) indentOpt(_ *cli.Context, a string) (any, error) {
	n, err := strconv.Atoi(a)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("%w: bad indent %q", cli.ErrUsage, a)
	}
	cfg.Indent = n
	return n, nil
}

func (cfg *MainConfig) encodingOpt(_ *cli.Context, a string) (any, error) {
	cfg.Encoding = a
	return a, nil
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) parseOpts() []parse.Option {
	var res []parse.Option
	if cfg.WS {
		res = append(res, parse.KeepWhitespace())
	}
	if cfg.P {
		res = append(res, parse.Permissive())
	}
	if cfg.Lossy {
		res = append(res, parse.Lossy())
	}
	if cfg.Encoding != "" {
		res = append(res, parse.WithEncoding(cfg.Encoding))
	}
	return res
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	res := []encode.EncodeOption{
		encode.Indent(cfg.Indent),
		encode.Declaration(cfg.Decl),
	}
	if cfg.Color {
		res = append(res, encode.EncodeColors(encode.NewColors()))
		return res
	}
	colorsSet := false
	for _, opt := range cfg.Main.Opts {
		if opt.Name != "color" {
			continue
		}
		colorsSet = opt.Value != nil
		break
	}
	if colorsSet {
		return res
	}
	f, ok := w.(*os.File)
	if !ok {
		return res
	}
	if isatty.IsTerminal(f.Fd()) {
		res = append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// input reads the document: the first file argument, or stdin.
func (cfg *MainConfig) input(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

type FmtConfig struct {
	*MainConfig

	Fragment bool `cli:"name=frag desc='parse input as a fragment'"`
	Fmt      *cli.Command
}

type SelConfig struct {
	*MainConfig

	Sel *cli.Command
}

type DiffConfig struct {
	*MainConfig

	Sem  bool `cli:"name=sem desc='compare structure, exit status only'"`
	Diff *cli.Command
}

type FromConfig struct {
	*MainConfig

	J bool `cli:"name=j aliases=json desc='input is json'"`
	Y bool `cli:"name=y aliases=yaml desc='input is yaml'"`
	H bool `cli:"name=html desc='input is html'"`

	From *cli.Command
}

type ToConfig struct {
	*MainConfig

	J bool `cli:"name=j aliases=json desc='output json'"`
	Y bool `cli:"name=y aliases=yaml desc='output yaml'"`

	To *cli.Command
}
