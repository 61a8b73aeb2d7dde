package convert

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"ttp/ai"
	"ttp/config"
	"ttp/outline"
	"ttp/pptx"
	"ttp/state"
)

// Run drives the generate command: source text in, presentation file out.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	if src != "-" {
		if src, err = filepath.Abs(src); err != nil {
			return err
		}
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.Overwrite = cmd.Bool("overwrite")
	env.Guidance = cmd.String("guidance")

	if p := cmd.String("provider"); p != "" {
		if _, err := config.ParseProvider(p); err != nil {
			log.Warn("Unknown AI provider requested, keeping configured one", zap.String("provider", p), zap.Error(err))
		} else {
			env.Cfg.AI.Provider = p
		}
	}

	env.Schema = probeTemplate(cmd.String("template"), env, log)

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst), zap.String("provider", env.Cfg.AI.Provider))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, int(cmd.Int("slides")), log)
}

// probeTemplate reads and probes the supplied template. Probing never fails:
// a missing or broken template degrades to the synthetic schema.
func probeTemplate(path string, env *state.LocalEnv, log *zap.Logger) *pptx.StyleSchema {
	if path == "" {
		return pptx.FallbackSchema()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Unable to read template, continuing without one", zap.String("template", path), zap.Error(err))
		return pptx.FallbackSchema()
	}
	if env.Rpt != nil {
		env.Rpt.Store("template"+filepath.Ext(path), path)
	}
	schema := pptx.Extract(data, log.Named("probe"))
	if env.Rpt != nil {
		if out, err := yaml.Marshal(buildProbeReport(path, schema)); err == nil {
			env.Rpt.StoreData("schema.yaml", out)
		}
	}
	return schema
}

// readSource reads source text, "-" means stdin.
func readSource(src string) ([]byte, error) {
	if src == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(src)
}

// process runs the pipeline for a single source document: prompt the AI
// collaborator, parse the outline, build, validate and serialize. Outline
// faults (unparseable reply, invalid outline) fail the run before any
// document is built.
func process(ctx context.Context, src, dst string, slides int, log *zap.Logger) (rerr error) {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Generation starting", zap.String("from", src))
	defer func(start time.Time) {
		if r := recover(); r != nil {
			log.Error("Generation ended with panic",
				zap.Any("panic", r), zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName), zap.ByteString("stack", debug.Stack()))
			rerr = fmt.Errorf("generation panic: %v", r)
		} else {
			log.Info("Generation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
		}
	}(time.Now())

	source, err := readSource(src)
	if err != nil {
		return fmt.Errorf("unable to read input source (%s): %w", src, err)
	}
	if len(source) == 0 {
		return fmt.Errorf("input source is empty (%s)", src)
	}

	o, err := requestOutline(ctx, string(source), slides, log)
	if err != nil {
		return err
	}

	doc := buildDocument(o, env, log)
	log.Debug("Document assembled", zap.String("id", doc.ID), zap.Int("slides", len(doc.Slides)))

	report := pptx.Validate(doc, log.Named("validate"))
	if env.Rpt != nil {
		if data, err := json.MarshalIndent(report, "", "  "); err == nil {
			env.Rpt.StoreData("validation.json", data)
		}
	}
	if !report.IsValid {
		return fmt.Errorf("generated document failed validation: %s", strings.Join(report.Warnings, "; "))
	}

	data, err := pptx.Serialize(doc, log)
	if err != nil {
		return fmt.Errorf("unable to generate output: %w", err)
	}
	if env.Cfg.Document.FixZip {
		if data, err = pptx.StripDataDescriptors(data); err != nil {
			return fmt.Errorf("unable to fix output archive: %w", err)
		}
	}

	// Determine output file name and path based on input and configuration.
	outputName = buildOutputPath(o, src, dst, env)

	// Check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
		if err = os.Remove(outputName); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, data, 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}

	// Store generation result for debugging
	if env.Rpt != nil {
		env.Rpt.Store("result"+filepath.Ext(outputName), outputName)
	}
	return nil
}

// requestOutline asks the configured AI collaborator for an outline. Both a
// request failure and a reply without a valid outline are hard errors; the
// raw reply is preserved in the debug report either way.
func requestOutline(ctx context.Context, source string, slides int, log *zap.Logger) (*outline.Outline, error) {
	env := state.EnvFromContext(ctx)

	provider, err := ai.New(&env.Cfg.AI, log.Named(env.Cfg.AI.Provider))
	if err != nil {
		return nil, err
	}

	prompt, err := outline.BuildPrompt(outline.PromptData{
		Source:   source,
		Guidance: env.Guidance,
		Slides:   slides,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to prepare prompt: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("prompt.txt", []byte(prompt))
	}

	reply, err := provider.GenerateOutline(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("outline request failed: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.StoreData("reply.txt", []byte(reply))
	}

	o, err := outline.Parse(reply)
	if err != nil {
		return nil, fmt.Errorf("unable to parse model reply: %w", err)
	}
	return o, nil
}

func buildDocument(o *outline.Outline, env *state.LocalEnv, log *zap.Logger) *pptx.Document {
	resolver := pptx.NewResolver(env.Schema, env.Cfg.Document.FallbackFonts, log.Named("resolve"))
	builder := pptx.NewBuilder(resolver, pptx.BuilderOptions{
		DefaultTitle:  env.Cfg.Document.DefaultTitle,
		SummaryTitles: env.Cfg.Document.SummarySlideTitles,
	}, log.Named("build"))
	return builder.Build(o)
}
