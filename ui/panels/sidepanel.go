package panels

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"pdfsnip/internal/app"
)

// SidePanel provides the side panel with tabbed sections.
type SidePanel struct {
	state     *app.State
	container *container.AppTabs

	cropPanel *CropPanel
	infoPanel *InfoPanel
}

// NewSidePanel creates a new side panel.
func NewSidePanel(state *app.State) *SidePanel {
	sp := &SidePanel{state: state}

	sp.cropPanel = NewCropPanel(state)
	sp.infoPanel = NewInfoPanel(state)

	sp.container = container.NewAppTabs(
		container.NewTabItem("Selection", sp.cropPanel.Container()),
		container.NewTabItem("Document", sp.infoPanel.Container()),
	)

	return sp
}

// Container returns the panel container.
func (sp *SidePanel) Container() fyne.CanvasObject {
	return sp.container
}

// Crop returns the selection crop panel.
func (sp *SidePanel) Crop() *CropPanel {
	return sp.cropPanel
}

// Info returns the document info panel.
func (sp *SidePanel) Info() *InfoPanel {
	return sp.infoPanel
}

// SetWindow sets the parent window for dialogs.
func (sp *SidePanel) SetWindow(w fyne.Window) {
	sp.cropPanel.SetWindow(w)
}

// ShowSelectionTab switches to the selection tab, used when a new crop lands.
func (sp *SidePanel) ShowSelectionTab() {
	sp.container.SelectIndex(0)
}
