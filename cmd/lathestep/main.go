// Package main provides the lathestep CLI entrypoint.
//
// Usage:
//
//	lathestep <command> [options]
//
// Commands:
//   - generate: assemble a job into a machine program
//   - validate: check a job without writing output
//   - stl: export the finished-part preview mesh
//
// Job files are YAML (.yaml/.yml) or Lisp (.lsp/.lisp).
package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/chazu/lathestep/pkg/contour"
	"github.com/chazu/lathestep/pkg/engine"
	"github.com/chazu/lathestep/pkg/jobfile"
	"github.com/chazu/lathestep/pkg/program"
	"github.com/chazu/lathestep/pkg/solid"
)

// commit is set via ldflags at build time.
var commit = "unknown"

const version = "0.3.0"

func main() {
	app := &cli.App{
		Name:           "lathestep",
		Usage:          "lathe program generator",
		Version:        fmt.Sprintf("%s (commit: %s)", version, commit),
		ExitErrHandler: exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "enable debug logging"},
		},
		Commands: []*cli.Command{
			generateCommand(),
			validateCommand(),
			stlCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		// ExitErrHandler already handled the exit for cli.ExitCoder errors.
		os.Exit(1)
	}
}

// exitErrHandler preserves exit codes from cli.Exit() while printing
// the message once.
func exitErrHandler(_ *cli.Context, err error) {
	if err == nil {
		return
	}

	var exitCoder cli.ExitCoder
	if errors.As(err, &exitCoder) {
		code := exitCoder.ExitCode()
		msg := exitCoder.Error()
		if msg != "" && msg != fmt.Sprintf("exit status %d", code) {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(code)
	}

	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// newLogger builds a console logger for CLI output.
func newLogger(verbose bool) *zap.SugaredLogger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:     "",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeLevel: zapcore.CapitalLevelEncoder,
	}
	level := zapcore.InfoLevel
	if verbose {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stderr),
		level,
	)
	return zap.New(core).Sugar()
}

// loadJob loads a job file by extension: YAML data files or Lisp
// scripts through the evaluation engine.
func loadJob(path string) (*program.Program, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".lsp", ".lisp":
		source, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read job file: %w", err)
		}
		prog, evalErrs, err := engine.NewEngine().Evaluate(string(source))
		if err != nil {
			return nil, err
		}
		if len(evalErrs) > 0 {
			return nil, fmt.Errorf("evaluate job file: %s", evalErrs[0].Error())
		}
		return prog, nil
	default:
		return jobfile.Load(path)
	}
}

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "assemble a job into a machine program",
		ArgsUsage: "<job-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file (default: stdout)"},
		},
		Action: func(c *cli.Context) error {
			log := newLogger(c.Bool("verbose"))
			if c.NArg() != 1 {
				return cli.Exit("generate requires exactly one job file argument", 2)
			}

			prog, err := loadJob(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			log.Debugf("loaded job %q with %d operations", prog.Name, len(prog.Operations))

			lines, err := program.Generate(prog)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			text := program.Render(lines)
			if out := c.String("output"); out != "" {
				if err := os.WriteFile(out, []byte(text), 0o644); err != nil {
					return cli.Exit(fmt.Sprintf("write output: %v", err), 1)
				}
				log.Infof("wrote %d lines to %s", len(lines), out)
				return nil
			}
			fmt.Print(text)
			return nil
		},
	}
}

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "check a job without writing output",
		ArgsUsage: "<job-file>",
		Action: func(c *cli.Context) error {
			log := newLogger(c.Bool("verbose"))
			if c.NArg() != 1 {
				return cli.Exit("validate requires exactly one job file argument", 2)
			}

			prog, err := loadJob(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if errs := program.Validate(prog); len(errs) > 0 {
				for _, e := range errs {
					log.Errorf("%v", e)
				}
				return cli.Exit(fmt.Sprintf("%d validation problem(s)", len(errs)), 1)
			}

			// A full dry-run emission catches problems Validate cannot
			// see, such as parameters that parse but are out of range.
			lines, err := program.Generate(prog)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			if findings := program.Check(lines); len(findings) > 0 {
				for _, f := range findings {
					log.Errorf("%s", f)
				}
				return cli.Exit(fmt.Sprintf("%d structural problem(s)", len(findings)), 1)
			}

			log.Infof("job %q: %d operations, ok", prog.Name, len(prog.Operations))
			return nil
		},
	}
}

func stlCommand() *cli.Command {
	return &cli.Command{
		Name:      "stl",
		Usage:     "export the finished-part preview mesh",
		ArgsUsage: "<job-file>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Required: true, Usage: "output STL file"},
			&cli.StringFlag{Name: "contour", Usage: "contour operation to export (default: first with a path)"},
		},
		Action: func(c *cli.Context) error {
			log := newLogger(c.Bool("verbose"))
			if c.NArg() != 1 {
				return cli.Exit("stl requires exactly one job file argument", 2)
			}

			prog, err := loadJob(c.Args().First())
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}

			path := pickProfile(prog, c.String("contour"))
			if len(path) < 2 {
				return cli.Exit("job has no contour with a usable profile", 1)
			}

			s, err := solid.Revolve(path)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			mesh, err := solid.ToMesh(s)
			if err != nil {
				return cli.Exit(err.Error(), 1)
			}
			log.Debugf("tessellated %d triangles", mesh.TriangleCount())

			f, err := os.Create(c.String("output"))
			if err != nil {
				return cli.Exit(fmt.Sprintf("create output: %v", err), 1)
			}
			defer f.Close()
			w := bufio.NewWriter(f)
			if err := solid.WriteSTL(w, mesh); err != nil {
				return cli.Exit(fmt.Sprintf("write stl: %v", err), 1)
			}
			if err := w.Flush(); err != nil {
				return cli.Exit(fmt.Sprintf("write stl: %v", err), 1)
			}

			log.Infof("wrote %d triangles to %s", mesh.TriangleCount(), c.String("output"))
			return nil
		},
	}
}

// pickProfile selects the polyline to revolve: the named operation's
// path, or the first operation that carries one.
func pickProfile(prog *program.Program, name string) []contour.Point {
	for _, op := range prog.Operations {
		if len(op.Path) == 0 {
			continue
		}
		if name != "" && op.Params.Str("name", "") != name {
			continue
		}
		return op.Path
	}
	return nil
}
