package pptx

import (
	"fmt"

	"go.uber.org/zap"
)

// ValidationReport summarizes one validation pass.
type ValidationReport struct {
	IsValid     bool
	IssuesFound int
	IssuesFixed int
	Warnings    []string
}

func (vr *ValidationReport) found(fixed bool, format string, args ...any) {
	vr.IssuesFound++
	if fixed {
		vr.IssuesFixed++
	}
	vr.Warnings = append(vr.Warnings, fmt.Sprintf(format, args...))
}

// Validate repairs a document in place and reports what it touched. Every
// repairable issue is repaired, so running Validate on its own output finds
// nothing. IsValid is false only for unrecoverable structure (a missing or
// slide-less document); repairs and warnings do not invalidate.
func Validate(doc *Document, log *zap.Logger) *ValidationReport {
	if log == nil {
		log = zap.NewNop()
	}
	vr := &ValidationReport{}

	if doc == nil {
		vr.found(false, "document is missing")
		return vr
	}

	if doc.SlideWidth <= 0 {
		vr.found(true, "slide width %d is not positive, reset to default", doc.SlideWidth)
		doc.SlideWidth = DefaultSlideWidth
	}
	if doc.SlideHeight <= 0 {
		vr.found(true, "slide height %d is not positive, reset to default", doc.SlideHeight)
		doc.SlideHeight = DefaultSlideHeight
	}

	if len(doc.Slides) == 0 {
		vr.found(false, "document has no slides")
		log.Error("Document validation failed", zap.Strings("warnings", vr.Warnings))
		return vr
	}

	for i, s := range doc.Slides {
		n := i + 1

		if s.LayoutIndex < 0 || s.LayoutIndex >= len(doc.Layouts) {
			fixedTo := len(doc.Layouts) - 1
			vr.found(true, "slide %d references missing layout %d, rebound to %d", n, s.LayoutIndex, fixedTo)
			s.LayoutIndex = fixedTo
		}

		if ph := s.TitlePlaceholder(); ph != nil {
			if s.Title() == "" {
				vr.found(true, "slide %d has a blank title, named it", n)
				ph.Frame.SetText(fmt.Sprintf("Slide %d", n))
			}
		} else {
			// nothing to repair without a title region, content survives
			vr.found(false, "slide %d has no title placeholder", n)
		}

		if i > 0 && !s.HasContent() {
			vr.found(false, "slide %d has no content", n)
		}
	}

	vr.IsValid = true
	if vr.IssuesFound > 0 {
		log.Info("Document validation found issues",
			zap.Int("found", vr.IssuesFound),
			zap.Int("fixed", vr.IssuesFixed),
			zap.Strings("warnings", vr.Warnings))
	}
	return vr
}
