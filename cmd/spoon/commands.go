package main

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/fatih/color"
	"github.com/goccy/go-yaml"
	"github.com/spoonlib/spoon"
	"github.com/spoonlib/spoon/parser"
	cmn "github.com/spoonlib/spoon/parser/parsercommon"
	"github.com/spoonlib/spoon/runtime/spoongo"
)

const exprFilename = "<expr>"

var outputFormats = []string{"text", "json", "yaml"}

// CompileCmd represents the compile command
type CompileCmd struct {
	Files  []string `arg:"" help:"Template files or directories (default: template_dir from config)" optional:""`
	Expr   string   `short:"e" help:"Compile template text given on the command line"`
	Format string   `help:"Output format: text, json or yaml (default: output.format from config)"`
	Strict bool     `help:"Reject unknown modifiers"`
}

func (c *CompileCmd) Run(ctx *Context) error {
	return c.run(ctx, os.Stdout)
}

func (c *CompileCmd) run(ctx *Context, out io.Writer) error {
	config, env, err := loadEnvironment(ctx, c.Strict)
	if err != nil {
		return err
	}

	sources, err := collectSources(config, c.Files, c.Expr)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Compiling %d template(s)", len(sources))
	}

	results := make([]*parser.Compiled, 0, len(sources))
	failed := 0

	for _, src := range sources {
		compiled, err := parser.NewCompiler(env, src.name).CompileTemplate(src.text)
		if err != nil {
			failed++
			reportError(ctx, err)

			continue
		}

		results = append(results, compiled)
	}

	format := c.Format
	if format == "" {
		format = config.Output.Format
	}

	if !slices.Contains(outputFormats, format) {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, format)
	}

	if err := writeCompiled(out, results, format, config.Output.Pretty); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d template(s)", ErrCompilationFailed, failed, len(sources))
	}

	return nil
}

// ValidateCmd represents the validate command
type ValidateCmd struct {
	Files  []string `arg:"" help:"Template files or directories (default: template_dir from config)" optional:""`
	Expr   string   `short:"e" help:"Validate template text given on the command line"`
	Strict bool     `help:"Reject unknown modifiers"`
}

func (v *ValidateCmd) Run(ctx *Context) error {
	config, env, err := loadEnvironment(ctx, v.Strict)
	if err != nil {
		return err
	}

	sources, err := collectSources(config, v.Files, v.Expr)
	if err != nil {
		return err
	}

	if ctx.Verbose {
		color.Blue("Validating %d template(s)", len(sources))
	}

	errorCount := 0
	for _, src := range sources {
		_, err := parser.NewCompiler(env, src.name).CompileTemplate(src.text)
		if err != nil {
			errorCount += countErrors(err)
			reportError(ctx, err)

			continue
		}

		if ctx.Verbose {
			color.Green("✓ %s", src.name)
		}
	}

	if errorCount > 0 {
		return fmt.Errorf("%w: %d error(s)", ErrValidationFailed, errorCount)
	}

	if !ctx.Quiet {
		color.Green("Validation completed successfully: %d template(s)", len(sources))
	}

	return nil
}

// EvalCmd represents the eval command
type EvalCmd struct {
	Expr string `short:"e" help:"Tag to evaluate, e.g. '{$user.name}'" required:""`
	Data string `short:"d" help:"YAML or JSON file providing the context" type:"path"`
}

func (e *EvalCmd) Run(ctx *Context) error {
	return e.run(ctx, os.Stdout)
}

func (e *EvalCmd) run(ctx *Context, out io.Writer) error {
	_, env, err := loadEnvironment(ctx, false)
	if err != nil {
		return err
	}

	compiled, err := parser.NewCompiler(env, exprFilename).CompileTemplate(e.Expr)
	if err != nil {
		return err
	}

	if len(compiled.Expressions) != 1 {
		return fmt.Errorf("%w: found %d", ErrSingleExpressionRequired, len(compiled.Expressions))
	}

	data, err := loadData(e.Data)
	if err != nil {
		return err
	}

	code := compiled.Expressions[0].Code
	if ctx.Verbose {
		color.Blue("Evaluating %s", code)
	}

	evaluator, err := spoongo.NewEvaluator()
	if err != nil {
		return err
	}

	value, err := evaluator.Evaluate(code, data)
	if err != nil {
		return err
	}

	return writeValue(out, value)
}

func loadEnvironment(ctx *Context, strict bool) (*spoon.Config, *spoon.Environment, error) {
	config, err := spoon.LoadConfig(ctx.Config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if strict {
		config.Strict = true
	}

	env, err := spoon.NewEnvironment(config)
	if err != nil {
		return nil, nil, err
	}

	return config, env, nil
}

type source struct {
	name string
	text string
}

// collectSources reads the templates named on the command line, or every
// template below the configured template directory.
func collectSources(config *spoon.Config, paths []string, expr string) ([]source, error) {
	if expr != "" {
		return []source{{name: exprFilename, text: expr}}, nil
	}

	if len(paths) == 0 {
		paths = []string{config.TemplateDir}
	}

	var files []string
	for _, path := range paths {
		found, err := findTemplates(path, config.Extension)
		if err != nil {
			return nil, err
		}

		files = append(files, found...)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, strings.Join(paths, ", "))
	}

	sources := make([]source, 0, len(files))
	for _, file := range files {
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read template: %w", err)
		}

		sources = append(sources, source{name: file, text: string(data)})
	}

	return sources, nil
}

func findTemplates(path, extension string) ([]string, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrInputFileNotExist, path)
	} else if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return []string{path}, nil
	}

	var files []string

	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() && strings.HasSuffix(p, extension) {
			files = append(files, p)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}

	slices.Sort(files)

	return files, nil
}

func loadData(path string) (map[string]any, error) {
	if path == "" {
		return map[string]any{}, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read data file: %w", err)
	}

	var data any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to parse data file: %w", err)
	}

	if data == nil {
		return map[string]any{}, nil
	}

	mapping, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrInvalidData, path)
	}

	return mapping, nil
}

func countErrors(err error) int {
	if perr, ok := cmn.AsParseError(err); ok {
		return len(perr.Errors)
	}

	return 1
}

func reportError(ctx *Context, err error) {
	if ctx.Quiet {
		return
	}

	red := color.New(color.FgRed)

	var perr *cmn.ParseError
	if errors.As(err, &perr) {
		for _, e := range perr.Errors {
			red.Fprintf(os.Stderr, "✗ %v\n", e)
		}

		return
	}

	red.Fprintf(os.Stderr, "✗ %v\n", err)
}
