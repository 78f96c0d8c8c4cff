package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{Indent: 2}
	sOpts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	opts := append(sOpts, []*cli.Opt{
		&cli.Opt{
			Name:        "o",
			Description: "output file (default stdout)",
			Type:        cli.NamedFuncOpt(cfg.outOpt, "(filepath)"),
		},
		&cli.Opt{
			Name:        "i",
			Aliases:     []string{"indent"},
			Description: "spaces per indent level, 0 for one line",
			Type:        cli.NamedFuncOpt(cfg.indentOpt, "(n)"),
		},
		&cli.Opt{
			Name:        "e",
			Aliases:     []string{"encoding"},
			Description: "input encoding, overriding detection",
			Type:        cli.NamedFuncOpt(cfg.encodingOpt, "(label)"),
		}}...)

	return cli.NewCommandAt(&cfg.Main, "xmlfmt").
		WithSynopsis("xmlfmt [opts] command [opts]").
		WithDescription("xmlfmt is a tool for working with xml documents.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xmlfmtMain(cfg, cc, args)
		}).
		WithSubs(
			FmtCommand(cfg),
			SelCommand(cfg),
			DiffCommand(cfg),
			FromCommand(cfg),
			ToCommand(cfg))
}

func FmtCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FmtConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Fmt, "fmt").
		WithAliases("f").
		WithSynopsis("fmt [opts] [file]").
		WithDescription("parse a document and print it reformatted").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fmtRun(cfg, cc, args)
		})
}

func SelCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &SelConfig{MainConfig: mainCfg}
	return cli.NewCommandAt(&cfg.Sel, "sel").
		WithAliases("s").
		WithSynopsis("sel <expr> [file]").
		WithDescription("print elements matching an expression, e.g. 'name == \"item\"'").
		WithRun(func(cc *cli.Context, args []string) error {
			return selRun(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [opts] <file1> <file2>").
		WithDescription("diff two documents in canonical form").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffRun(cfg, cc, args)
		})
}

func FromCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &FromConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.From, "from").
		WithSynopsis("from (-j|-y|-html) [file]").
		WithDescription("build an xml document from json, yaml or html").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return fromRun(cfg, cc, args)
		})
}

func ToCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ToConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.To, "to").
		WithSynopsis("to (-j|-y) [file]").
		WithDescription("render an xml document as json or yaml").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return toRun(cfg, cc, args)
		})
}
