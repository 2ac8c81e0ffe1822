// Package ui renders the settings panel. It is host glue around the
// configuration model; the simulation core never reads it.
package ui

import (
	"strings"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/dotfield/config"
	"github.com/pthm-cable/dotfield/renderer"
)

// The fixed option sets exposed to the user.
var (
	diameterOptions = []float32{3, 4, 6}
	spacingOptions  = []float32{12, 10, 8}
	countOptions    = []int{12000, 18000, 22000}
	radiusOptions   = []float32{90, 120, 160}
)

const (
	panelX      = 10
	panelY      = 10
	panelWidth  = 230
	rowHeight   = 24
	rowGap      = 8
	labelHeight = 14
)

// SettingsPanel is a raygui panel mapping the fixed option sets onto
// Settings values. Draw returns the updated settings when any control
// changed this frame.
type SettingsPanel struct {
	visible  bool
	settings config.Settings

	diameterIdx  int32
	spacingIdx   int32
	countIdx     int32
	radiusIdx    int32
	intensityIdx int32
	gradientIdx  int32
	reduced      bool

	gradientNames string
}

// NewSettingsPanel creates a panel reflecting the given settings.
func NewSettingsPanel(s config.Settings) *SettingsPanel {
	names := make([]string, renderer.PresetCount())
	for i := range names {
		names[i] = renderer.Preset(i).Name
	}

	p := &SettingsPanel{gradientNames: strings.Join(names, ";")}
	p.setFrom(s)
	return p
}

// setFrom resets the control state from settings values.
func (p *SettingsPanel) setFrom(s config.Settings) {
	p.settings = s
	p.diameterIdx = indexOfF32(diameterOptions, s.DotDiameter)
	p.spacingIdx = indexOfF32(spacingOptions, s.Spacing)
	p.countIdx = indexOfInt(countOptions, s.TargetDotCount)
	p.radiusIdx = indexOfF32(radiusOptions, s.EffectRadius)
	p.intensityIdx = int32(s.Intensity)
	p.gradientIdx = int32(s.GradientPreset)
	p.reduced = s.ReducedMotion
}

// Toggle switches panel visibility.
func (p *SettingsPanel) Toggle() {
	p.visible = !p.visible
}

// Visible returns whether the panel is shown.
func (p *SettingsPanel) Visible() bool {
	return p.visible
}

// Draw renders the panel and returns the current settings plus whether any
// control changed this frame.
func (p *SettingsPanel) Draw() (config.Settings, bool) {
	if !p.visible {
		return p.settings, false
	}

	rows := 7
	height := float32(rows*(rowHeight+rowGap+labelHeight) + 40)
	gui.Panel(rl.NewRectangle(panelX, panelY, panelWidth, height), "Settings [Tab]")

	y := float32(panelY + 32)
	changed := false

	row := func(label string, draw func(bounds rl.Rectangle)) {
		gui.Label(rl.NewRectangle(panelX+10, y, panelWidth-20, labelHeight), label)
		y += labelHeight
		draw(rl.NewRectangle(panelX+10, y, panelWidth-20, rowHeight))
		y += rowHeight + rowGap
	}

	row("Dot diameter", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, "3;4;6", p.diameterIdx); v != p.diameterIdx {
			p.diameterIdx = v
			changed = true
		}
	})
	row("Spacing", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, "12;10;8", p.spacingIdx); v != p.spacingIdx {
			p.spacingIdx = v
			changed = true
		}
	})
	row("Dot budget", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, "12000;18000;22000", p.countIdx); v != p.countIdx {
			p.countIdx = v
			changed = true
		}
	})
	row("Effect radius", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, "90;120;160", p.radiusIdx); v != p.radiusIdx {
			p.radiusIdx = v
			changed = true
		}
	})
	row("Intensity", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, "low;default;high", p.intensityIdx); v != p.intensityIdx {
			p.intensityIdx = v
			changed = true
		}
	})
	row("Gradient", func(b rl.Rectangle) {
		if v := gui.ComboBox(b, p.gradientNames, p.gradientIdx); v != p.gradientIdx {
			p.gradientIdx = v
			changed = true
		}
	})
	row("Motion", func(b rl.Rectangle) {
		if v := gui.CheckBox(b, "Reduce motion", p.reduced); v != p.reduced {
			p.reduced = v
			changed = true
		}
	})

	if changed {
		p.settings = config.Settings{
			DotDiameter:    diameterOptions[p.diameterIdx],
			Spacing:        spacingOptions[p.spacingIdx],
			TargetDotCount: countOptions[p.countIdx],
			EffectRadius:   radiusOptions[p.radiusIdx],
			Intensity:      config.Intensity(p.intensityIdx),
			GradientPreset: int(p.gradientIdx),
			ReducedMotion:  p.reduced,
		}
	}
	return p.settings, changed
}

func indexOfF32(opts []float32, v float32) int32 {
	for i, o := range opts {
		if o == v {
			return int32(i)
		}
	}
	return 0
}

func indexOfInt(opts []int, v int) int32 {
	for i, o := range opts {
		if o == v {
			return int32(i)
		}
	}
	return 0
}
