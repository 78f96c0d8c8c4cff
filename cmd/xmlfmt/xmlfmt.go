package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	domtree "github.com/domtree/go-domtree"
	"github.com/domtree/go-domtree/bridge"
	"github.com/domtree/go-domtree/encode"
	"github.com/domtree/go-domtree/htmlshim"
	"github.com/domtree/go-domtree/parse"
	"github.com/domtree/go-domtree/tree"

	"github.com/scott-cotton/cli"

	"github.com/sergi/go-diff/diffmatchpatch"
)

func xmlfmtMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	defer func() {
		if cfg.CloseOut != nil {
			cfg.CloseOut()
		}
	}()
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}

func fmtRun(cfg *FmtConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Fmt.Parse(cc, args)
	if err != nil {
		return err
	}
	d, err := cfg.input(args)
	if err != nil {
		return err
	}
	parseFn := parse.Parse
	if cfg.Fragment {
		parseFn = parse.ParseFragment
	}
	t, err := parseFn(d, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	return encode.Encode(t, t.Root(), cc.Out, cfg.encOpts(cc.Out)...)
}

func selRun(cfg *SelConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Sel.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: sel requires an expression", cli.ErrUsage)
	}
	q, err := domtree.Compile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	d, err := cfg.input(args[1:])
	if err != nil {
		return err
	}
	t, err := parse.Parse(d, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	matches, err := q.Select(t, t.Root())
	if err != nil {
		return err
	}
	opts := cfg.encOpts(cc.Out)
	for _, el := range matches {
		if err := encode.Encode(t, el, cc.Out, opts...); err != nil {
			return err
		}
		if cfg.Indent == 0 {
			if _, err := fmt.Fprintln(cc.Out); err != nil {
				return err
			}
		}
	}
	return nil
}

// canonical renders a document in a fixed layout so text diffs track
// structure, not incidental formatting.
func canonical(path string, opts []parse.Option) (*tree.Tree, string, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	t, err := parse.Parse(d, opts...)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", path, err)
	}
	var buf bytes.Buffer
	if err := encode.Encode(t, t.Root(), &buf, encode.Indent(2)); err != nil {
		return nil, "", err
	}
	return t, buf.String(), nil
}

func diffRun(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two files", cli.ErrUsage)
	}
	ta, a, err := canonical(args[0], cfg.parseOpts())
	if err != nil {
		return err
	}
	tb, b, err := canonical(args[1], cfg.parseOpts())
	if err != nil {
		return err
	}
	if cfg.Sem {
		if !domtree.Equal(ta, tb) {
			os.Exit(1)
		}
		return nil
	}
	if a == b {
		return nil
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, true)
	diffs = dmp.DiffCleanupSemantic(diffs)
	_, err = fmt.Fprint(cc.Out, dmp.DiffPrettyText(diffs))
	return err
}

func fromRun(cfg *FromConfig, cc *cli.Context, args []string) error {
	args, err := cfg.From.Parse(cc, args)
	if err != nil {
		return err
	}
	d, err := cfg.input(args)
	if err != nil {
		return err
	}
	var t *tree.Tree
	switch {
	case cfg.J:
		t, err = bridge.FromJSON(d)
	case cfg.Y:
		t, err = bridge.FromYAML(d)
	case cfg.H:
		t, err = htmlshim.ParseBytes(d)
	default:
		return fmt.Errorf("%w: from requires one of -j -y -html", cli.ErrUsage)
	}
	if err != nil {
		return err
	}
	return encode.Encode(t, t.Root(), cc.Out, cfg.encOpts(cc.Out)...)
}

func toRun(cfg *ToConfig, cc *cli.Context, args []string) error {
	args, err := cfg.To.Parse(cc, args)
	if err != nil {
		return err
	}
	d, err := cfg.input(args)
	if err != nil {
		return err
	}
	t, err := parse.Parse(d, cfg.parseOpts()...)
	if err != nil {
		return err
	}
	var out []byte
	switch {
	case cfg.J:
		out, err = bridge.ToJSON(t, t.Root())
	case cfg.Y:
		out, err = bridge.ToYAML(t, t.Root())
	default:
		return fmt.Errorf("%w: to requires one of -j -y", cli.ErrUsage)
	}
	if err != nil {
		return err
	}
	if _, err := cc.Out.Write(out); err != nil {
		return err
	}
	if len(out) > 0 && out[len(out)-1] != '\n' {
		_, err = fmt.Fprintln(cc.Out)
	}
	return err
}
