package inspector

import (
	"fmt"
	"os"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

var (
	colorOK   = imgui.NewVec4(0.4, 0.8, 0.4, 1)
	colorWarn = imgui.NewVec4(1, 0.8, 0, 1)
	colorBad  = imgui.NewVec4(0.8, 0.3, 0.3, 1)
)

// Panel draws the inspector window. All methods run on the UI thread.
type Panel struct {
	client  *Client
	history *History

	paused    bool
	savePaths chan string // filled by the file dialog goroutine
	message   string
}

// NewPanel creates a panel over a client and its history.
func NewPanel(c *Client, h *History) *Panel {
	return &Panel{client: c, history: h, savePaths: make(chan string, 1)}
}

// Draw renders one frame of the panel filling the main viewport.
func (p *Panel) Draw() {
	p.processSaves()

	viewport := imgui.MainViewport()
	imgui.SetNextWindowPos(viewport.WorkPos())
	imgui.SetNextWindowSize(viewport.WorkSize())
	flags := imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse | imgui.WindowFlagsNoTitleBar
	if imgui.BeginV("Skywatch", nil, flags) {
		p.drawStatus()
		imgui.Separator()
		p.drawLatest()
		imgui.Separator()
		p.drawStats()
		imgui.Separator()
		p.drawActions()
	}
	imgui.End()
}

func (p *Panel) drawStatus() {
	st := p.client.Status()
	imgui.Text("Hub: " + st.URL)
	imgui.SameLine()
	switch {
	case st.Connected:
		imgui.TextColored(colorOK, "connected")
	case st.Err != nil:
		imgui.TextColored(colorBad, "disconnected")
	default:
		imgui.TextColored(colorWarn, "connecting")
	}
	if st.Err != nil && !st.Connected {
		imgui.TextDisabled(st.Err.Error())
	}
	imgui.Text(fmt.Sprintf("Frames received: %d | stored: %d", st.Received, p.history.Len()))
}

func (p *Panel) drawLatest() {
	f, ok := p.history.Latest()
	if !ok {
		imgui.TextDisabled("No lighting frames yet")
		return
	}
	imgui.Text(fmt.Sprintf("Time: %.2f s", f.Time))
	imgui.Text(fmt.Sprintf("Light direction: %s", vec(f.LightDirection)))
	imgui.Text(fmt.Sprintf("Sun position:    %s", vec(f.SunPosition)))
	imgui.Text(fmt.Sprintf("Sky rotation:    %s", vec(f.SkyboxRotation)))

	// Components mapped from [-1,1] to [0,1].
	for i, axis := range []string{"x", "y", "z"} {
		imgui.Text(axis)
		imgui.SameLine()
		imgui.ProgressBarV((f.LightDirection[i]+1)/2, imgui.NewVec2(-1, 0), fmt.Sprintf("%.3f", f.LightDirection[i]))
	}
}

func (p *Panel) drawStats() {
	s := p.history.Stats()
	if s.Frames < 2 {
		imgui.TextDisabled("Not enough frames for drift figures")
		return
	}
	imgui.Text(fmt.Sprintf("Window: %d frames over %.1f s", s.Frames, s.Span))
	imgui.Text(fmt.Sprintf("Max drift: %.3f deg", s.MaxDrift))
	imgui.Text(fmt.Sprintf("Mean rate: %.4f deg/s", s.Rate))
}

func (p *Panel) drawActions() {
	if imgui.Checkbox("Pause recording", &p.paused) {
		p.client.SetPaused(p.paused)
	}
	if imgui.ButtonV("Clear", imgui.NewVec2(120, 0)) {
		p.history.Clear()
		p.message = ""
	}
	imgui.SameLine()
	if imgui.ButtonV("Save CSV...", imgui.NewVec2(120, 0)) {
		p.openSaveDialog()
	}
	if p.message != "" {
		imgui.TextWrapped(p.message)
	}
}

// openSaveDialog asks for a path off the UI thread; the file is written
// on the next Draw.
func (p *Panel) openSaveDialog() {
	go func() {
		path, err := dialog.File().
			Filter("CSV files", "csv").
			Title("Save lighting history").
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				p.client.log.Warn("save dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case p.savePaths <- path:
		default:
		}
	}()
}

func (p *Panel) processSaves() {
	select {
	case path := <-p.savePaths:
		if err := p.Save(path); err != nil {
			p.message = "Save failed: " + err.Error()
			return
		}
		p.message = "Saved " + path
	default:
	}
}

// Save writes the history as CSV to path.
func (p *Panel) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := p.history.WriteCSV(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func vec(v [3]float32) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
