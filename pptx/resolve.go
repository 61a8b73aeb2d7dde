package pptx

import (
	"go.uber.org/zap"
)

// Resolver answers "what font should this placeholder get" questions against
// a single probed schema. It is cheap to create and safe for concurrent use.
type Resolver struct {
	schema    *StyleSchema
	fallbacks []string
	log       *zap.Logger
}

// NewResolver binds a resolver to a schema. fallbacks is the ordered font
// name chain tried when a resolved typeface cannot be applied.
func NewResolver(schema *StyleSchema, fallbacks []string, log *zap.Logger) *Resolver {
	if schema == nil {
		schema = FallbackSchema()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{schema: schema, fallbacks: fallbacks, log: log}
}

// Schema returns the schema the resolver operates on.
func (rs *Resolver) Schema() *StyleSchema {
	return rs.schema
}

// Resolve finds the font descriptor for a placeholder. Resolution is
// three-step: the exact (layout, placeholder type) style first, then any
// non-empty descriptor from the schema as a stand-in, then nil meaning
// "nothing known, leave defaults alone".
//
// The stand-in scan walks layouts and their placeholders in the schema's
// stored order, so the first style probed anywhere in the template wins.
// A visually unrelated layout may donate its font that way; intentional.
func (rs *Resolver) Resolve(layout, placeholder string) *FontDescriptor {
	if fd, ok := rs.schema.PlaceholderStyles[StyleKey{Layout: layout, Placeholder: placeholder}]; ok && !fd.Empty() {
		return fd
	}

	for i := range rs.schema.Layouts {
		l := &rs.schema.Layouts[i]
		for j := range l.Placeholders {
			if fd := l.Placeholders[j].Font; !fd.Empty() {
				rs.log.Debug("Using stand-in style",
					zap.String("wanted_layout", layout),
					zap.String("wanted_placeholder", placeholder),
					zap.String("from_layout", l.Name),
					zap.String("from_placeholder", l.Placeholders[j].Type))
				return fd
			}
		}
	}
	return nil
}

// Apply transfers the descriptor onto a run. Absent fields leave the run
// untouched; a nil descriptor is a no-op. A typeface that cannot be applied
// falls through the fallback chain, and when the whole chain is exhausted the
// run simply keeps no explicit typeface.
func (rs *Resolver) Apply(run *Run, fd *FontDescriptor) {
	if run == nil || fd.Empty() {
		return
	}

	if fd.Name != nil {
		if err := run.SetFontName(*fd.Name); err != nil {
			rs.log.Debug("Resolved typeface rejected, trying fallbacks", zap.Error(err))
			rs.applyFallbackFont(run)
		}
	}
	if fd.Size != nil && *fd.Size > 0 {
		sz := *fd.Size
		run.Font.Size = &sz
	}
	if fd.Bold != nil {
		b := *fd.Bold
		run.Font.Bold = &b
	}
	if fd.Italic != nil {
		i := *fd.Italic
		run.Font.Italic = &i
	}
	if fd.Color != nil {
		c := *fd.Color
		run.Font.Color = &c
	}
}

func (rs *Resolver) applyFallbackFont(run *Run) {
	for _, name := range rs.fallbacks {
		if err := run.SetFontName(name); err == nil {
			return
		}
	}
	rs.log.Debug("Fallback font chain exhausted, run keeps inherited typeface")
}

// Style resolves and applies in one step, returning the descriptor used.
func (rs *Resolver) Style(run *Run, layout, placeholder string) *FontDescriptor {
	fd := rs.Resolve(layout, placeholder)
	rs.Apply(run, fd)
	return fd
}
