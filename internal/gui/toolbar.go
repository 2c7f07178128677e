// Action buttons: upload, operation choice, process, download
package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"morphology-workbench/internal/algorithms"
)

type Toolbar struct {
	container *fyne.Container

	uploadBtn   *widget.Button
	operation   *widget.Select
	processBtn  *widget.Button
	downloadBtn *widget.Button

	onUpload   func()
	onProcess  func(operation string)
	onDownload func()
}

func NewToolbar() *Toolbar {
	tb := &Toolbar{}

	tb.uploadBtn = widget.NewButtonWithIcon("Upload Image", theme.FolderOpenIcon(), func() {
		if tb.onUpload != nil {
			tb.onUpload()
		}
	})

	tb.operation = widget.NewSelect(algorithms.OperationNames(), nil)
	tb.operation.SetSelectedIndex(0)

	tb.processBtn = widget.NewButtonWithIcon("Process Image", theme.MediaPlayIcon(), func() {
		if tb.onProcess != nil {
			tb.onProcess(tb.operation.Selected)
		}
	})
	tb.processBtn.Importance = widget.HighImportance

	tb.downloadBtn = widget.NewButtonWithIcon("Download Result", theme.DocumentSaveIcon(), func() {
		if tb.onDownload != nil {
			tb.onDownload()
		}
	})
	tb.downloadBtn.Disable()

	tb.container = container.NewGridWithColumns(4,
		tb.uploadBtn,
		tb.operation,
		tb.processBtn,
		tb.downloadBtn,
	)

	return tb
}

func (tb *Toolbar) GetContainer() *fyne.Container {
	return tb.container
}

func (tb *Toolbar) SetCallbacks(onUpload func(), onProcess func(string), onDownload func()) {
	tb.onUpload = onUpload
	tb.onProcess = onProcess
	tb.onDownload = onDownload
}

func (tb *Toolbar) SetResultAvailable(available bool) {
	if available {
		tb.downloadBtn.Enable()
	} else {
		tb.downloadBtn.Disable()
	}
}
