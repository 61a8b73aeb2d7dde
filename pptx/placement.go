package pptx

import (
	"strings"

	"go.uber.org/zap"
)

// Content textbox geometry for the last-resort tactic: 1in from the left,
// 1.5in from the top, 8in wide and 5in tall.
var fallbackContentBox = box{
	left:   1 * emuPerInch,
	top:    emuPerInch * 3 / 2,
	width:  8 * emuPerInch,
	height: 5 * emuPerInch,
}

// bullet glyph prepended when content ends up in a plain textbox, which has
// no list formatting of its own
const bulletPrefix = "• "

// placementTactic tries to put bullet lines onto a slide, reporting success.
type placementTactic struct {
	name  string
	apply func(s *Slide, bullets []string) bool
}

// The textbox tactic is a single last resort covering both the styled and
// the unstyled case: placement always inserts the box the same way and the
// builder styles its runs afterwards when the schema has anything to offer.
var placementTactics = []placementTactic{
	{"body placeholder idx", placeIntoIdxOne},
	{"body placeholder type", placeIntoBodyType},
	{"fallback textbox", placeIntoTextBox},
}

// PlaceContent walks the tactic chain until one succeeds. Tactics are
// attempted in order of fidelity; each runs under its own recover so a
// misbehaving slide shape never takes down the whole build. With the
// textbox tactic at the end the chain cannot fail for a well-formed slide.
func PlaceContent(s *Slide, bullets []string, log *zap.Logger) bool {
	if log == nil {
		log = zap.NewNop()
	}
	if s == nil || len(bullets) == 0 {
		return false
	}

	for _, tactic := range placementTactics {
		if tryTactic(tactic, s, bullets, log) {
			return true
		}
	}
	log.Warn("All placement tactics failed, content dropped")
	return false
}

func tryTactic(tactic placementTactic, s *Slide, bullets []string, log *zap.Logger) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Debug("Placement tactic panicked", zap.String("tactic", tactic.name), zap.Any("panic", r))
			ok = false
		}
	}()
	return tactic.apply(s, bullets)
}

// placeIntoIdxOne targets the placeholder with idx 1, the conventional body
// slot on stock layouts.
func placeIntoIdxOne(s *Slide, bullets []string) bool {
	for _, ph := range s.Placeholders {
		if ph.Info.Idx != 1 || ph.IsTitle() {
			continue
		}
		fillBullets(&ph.Frame, bullets)
		return true
	}
	return false
}

// placeIntoBodyType targets any placeholder whose type names it a content
// region.
func placeIntoBodyType(s *Slide, bullets []string) bool {
	for _, ph := range s.Placeholders {
		t := strings.ToUpper(ph.Info.Type)
		if !strings.Contains(t, "BODY") && !strings.Contains(t, "CONTENT") {
			continue
		}
		fillBullets(&ph.Frame, bullets)
		return true
	}
	return false
}

// placeIntoTextBox always succeeds: content goes into a fresh textbox with
// explicit bullet glyphs.
func placeIntoTextBox(s *Slide, bullets []string) bool {
	tb := s.AddTextBox(fallbackContentBox.left, fallbackContentBox.top, fallbackContentBox.width, fallbackContentBox.height)
	for _, b := range bullets {
		p := tb.Frame.AddParagraph()
		p.Runs = append(p.Runs, Run{Text: bulletPrefix + b})
	}
	return true
}

// fillBullets replaces frame content with one leveled paragraph per bullet.
// Placeholders carry list formatting from their layout, so no glyph is added.
func fillBullets(tf *TextFrame, bullets []string) {
	tf.Clear()
	for _, b := range bullets {
		p := tf.AddParagraph()
		p.Runs = append(p.Runs, Run{Text: b})
	}
}
