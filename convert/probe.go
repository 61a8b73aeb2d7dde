package convert

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"ttp/pptx"
	"ttp/state"
)

// probe output, shaped for human consumption
type (
	probeFont struct {
		Name   string  `yaml:"name,omitempty"`
		Size   float64 `yaml:"size,omitempty"`
		Bold   bool    `yaml:"bold,omitempty"`
		Italic bool    `yaml:"italic,omitempty"`
		Color  string  `yaml:"color,omitempty"`
	}
	probePlaceholder struct {
		Idx      int        `yaml:"idx"`
		Type     string     `yaml:"type"`
		Geometry string     `yaml:"geometry,omitempty"`
		Font     *probeFont `yaml:"font,omitempty"`
	}
	probeLayout struct {
		Name         string             `yaml:"name"`
		Background   string             `yaml:"background,omitempty"`
		Placeholders []probePlaceholder `yaml:"placeholders,omitempty"`
	}
	probeReport struct {
		Template         string            `yaml:"template"`
		Synthetic        bool              `yaml:"synthetic"`
		SlideWidth       int64             `yaml:"slide_width"`
		SlideHeight      int64             `yaml:"slide_height"`
		Layouts          []probeLayout     `yaml:"layouts"`
		ThemeColors      map[string]string `yaml:"theme_colors,omitempty"`
		MasterBackground string            `yaml:"master_background,omitempty"`
	}
)

// Probe drives the probe command: extract and print the style schema of an
// existing presentation.
func Probe(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("probe")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no template has been specified")
	}
	src, err := filepath.Abs(src)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read template (%s): %w", src, err)
	}
	schema := pptx.Extract(data, log)

	report := buildProbeReport(src, schema)
	out, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("unable to marshal probe report: %w", err)
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		fmt.Print(string(out))
		return nil
	}
	if err := os.WriteFile(dst, out, 0644); err != nil {
		return fmt.Errorf("unable to write probe report: %w", err)
	}
	log.Info("Probe report written", zap.String("template", src), zap.String("report", dst))
	return nil
}

func buildProbeReport(src string, schema *pptx.StyleSchema) *probeReport {
	report := &probeReport{
		Template:    src,
		Synthetic:   schema.Synthetic,
		SlideWidth:  schema.SlideWidth,
		SlideHeight: schema.SlideHeight,
	}

	for _, l := range schema.Layouts {
		pl := probeLayout{Name: l.Name}
		if l.Background != nil {
			pl.Background = "#" + l.Background.Color.Hex()
		}
		for _, ph := range l.Placeholders {
			pp := probePlaceholder{
				Idx:  ph.Idx,
				Type: ph.Type,
				Font: buildProbeFont(ph.Font),
			}
			if ph.Width > 0 && ph.Height > 0 {
				pp.Geometry = fmt.Sprintf("%d,%d %dx%d", ph.Left, ph.Top, ph.Width, ph.Height)
			}
			pl.Placeholders = append(pl.Placeholders, pp)
		}
		report.Layouts = append(report.Layouts, pl)
	}

	if len(schema.ThemeColors) > 0 {
		report.ThemeColors = make(map[string]string, len(schema.ThemeColors))
		for slot, c := range schema.ThemeColors {
			report.ThemeColors[slot] = "#" + c.Hex()
		}
	}
	if schema.MasterBackground != nil {
		report.MasterBackground = "#" + schema.MasterBackground.Color.Hex()
	}
	return report
}

func buildProbeFont(fd *pptx.FontDescriptor) *probeFont {
	if fd.Empty() {
		return nil
	}
	pf := &probeFont{}
	if fd.Name != nil {
		pf.Name = *fd.Name
	}
	if fd.Size != nil {
		pf.Size = *fd.Size
	}
	if fd.Bold != nil {
		pf.Bold = *fd.Bold
	}
	if fd.Italic != nil {
		pf.Italic = *fd.Italic
	}
	if fd.Color != nil {
		pf.Color = "#" + fd.Color.Hex()
	}
	return pf
}
