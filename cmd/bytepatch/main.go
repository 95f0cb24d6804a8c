// Command bytepatch builds and applies byte-exact patches between two
// files, using the unified-diff-like percent-encoded patch text format.
package main

import (
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/dmpcore/bytepatch"
	"github.com/dmpcore/bytepatch/buffer"
)

var cli struct {
	Build struct {
		BeforeFile *os.File      `arg help:"File before the change."`
		AfterFile  *os.File      `arg help:"File after the change."`
		TimeLimit  time.Duration `name:"timeout" default:"1s" help:"Max time to spend diffing."`
		Margin     int           `name:"margin" default:"4" help:"Patch context margin, in bytes."`
	} `cmd help:"Build a patch that turns before-file into after-file."`

	Apply struct {
		BeforeFile *os.File `arg help:"File the patch is applied to."`
		PatchFile  *os.File `arg help:"Patch file produced by build."`
	} `cmd help:"Apply a patch to a file."`

	Verbose bool `short:"v" help:"Log progress to stderr."`
}

func main() {
	ctx := kong.Parse(&cli)

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if cli.Verbose {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}

	switch ctx.Command() {
	case "build <before-file> <after-file>":
		runBuild(log)
	case "apply <before-file> <patch-file>":
		runApply(log)
	default:
		log.Fatalf("unrecognized command %q", ctx.Command())
	}
}

func runBuild(log *logrus.Logger) {
	before, err := io.ReadAll(cli.Build.BeforeFile)
	if err != nil {
		log.WithError(err).Fatal("reading before-file")
	}
	after, err := io.ReadAll(cli.Build.AfterFile)
	if err != nil {
		log.WithError(err).Fatal("reading after-file")
	}

	cfg := bytepatch.NewDefaultConfig()
	cfg.DiffTimeout = cli.Build.TimeLimit
	cfg.PatchMargin = cli.Build.Margin

	log.WithFields(logrus.Fields{
		"before_bytes": len(before),
		"after_bytes":  len(after),
		"timeout":      cfg.DiffTimeout,
	}).Debug("building diff")

	d := bytepatch.BuildDiff(cfg, buffer.New(before), buffer.New(after))
	p := bytepatch.BuildPatch(cfg, buffer.New(before), d)

	log.WithField("fragments", len(p.Fragments)).Debug("built patch")

	if _, err := os.Stdout.WriteString(p.Text()); err != nil {
		log.WithError(err).Fatal("writing patch to stdout")
	}
}

func runApply(log *logrus.Logger) {
	before, err := io.ReadAll(cli.Apply.BeforeFile)
	if err != nil {
		log.WithError(err).Fatal("reading before-file")
	}
	patchText, err := io.ReadAll(cli.Apply.PatchFile)
	if err != nil {
		log.WithError(err).Fatal("reading patch-file")
	}

	cfg := bytepatch.NewDefaultConfig()
	p, err := bytepatch.ParsePatch(cfg, string(patchText))
	if err != nil {
		log.WithError(err).Fatal("parsing patch")
	}

	result, applied, err := p.Apply(cfg, buffer.New(before))
	if err != nil {
		log.WithError(err).Fatal("applying patch")
	}

	failed := 0
	for i, ok := range applied {
		if !ok {
			failed++
			log.WithField("fragment", i).Warn("patch fragment did not apply")
		}
	}

	if _, err := os.Stdout.Write(result.Bytes()); err != nil {
		log.WithError(err).Fatal("writing result to stdout")
	}
	if failed > 0 {
		os.Exit(1)
	}
}
