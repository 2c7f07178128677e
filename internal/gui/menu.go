// Menu handler for file actions
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"morphology-workbench/internal/core"
	"morphology-workbench/internal/io"
)

// MenuHandler owns the open and save dialogs
type MenuHandler struct {
	window    fyne.Window
	imageData *core.ImageData
	loader    *io.ImageLoader
	logger    *logrus.Logger

	onImageLoaded func(string)
	onImageSaved  func(string)
}

func NewMenuHandler(window fyne.Window, imageData *core.ImageData, loader *io.ImageLoader, logger *logrus.Logger) *MenuHandler {
	return &MenuHandler{
		window:    window,
		imageData: imageData,
		loader:    loader,
		logger:    logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Upload Image...", mh.openImage),
		fyne.NewMenuItem("Save Result...", mh.saveImage),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, helpMenu)
}

func (mh *MenuHandler) openImage() {
	mh.logger.Info("Opening file dialog for image selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		filepath := reader.URI().Path()
		mh.logger.WithField("filepath", filepath).Info("Loading selected image")

		mat, err := mh.loader.LoadImage(filepath)
		if err != nil {
			mh.showError("Failed to Load Image", err)
			return
		}
		defer mat.Close()

		if err := mh.imageData.SetOriginal(mat, filepath); err != nil {
			mh.showError("Invalid Image", err)
			return
		}

		if mh.onImageLoaded != nil {
			mh.onImageLoaded(filepath)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) saveImage() {
	if !mh.imageData.HasResult() {
		mh.logger.Warn("Save requested before any result was produced")
		dialog.ShowInformation("No Result", "Please process the image first.", mh.window)
		return
	}

	mh.logger.Info("Opening file dialog for image saving")

	fileDialog := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if writer == nil {
			mh.logger.Debug("Save operation cancelled")
			return
		}
		// the codec writes by path; the dialog's handle is only used to pick it
		writer.Close()

		filepath := writer.URI().Path()
		result := mh.imageData.GetResult()
		defer result.Close()

		mh.logger.WithFields(logrus.Fields{
			"task_id":  mh.imageData.ResultTaskID(),
			"filepath": filepath,
		}).Info("Saving result")

		if err := mh.loader.SaveImage(result, filepath); err != nil {
			mh.showError("Failed to Save Image", err)
			return
		}

		if mh.onImageSaved != nil {
			mh.onImageSaved(filepath)
		}
	}, mh.window)

	fileDialog.SetFileName("processed_image.png")
	fileDialog.SetFilter(storage.NewExtensionFileFilter(io.SupportedExtensions()))
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel(fmt.Sprintf("%s %s", AppName, AppVersion)),
		widget.NewSeparator(),
		widget.NewLabel("Erosion, dilation, opening and closing"),
		widget.NewLabel("with a 5x5 rectangular structuring element."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(360, 220))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onImageLoaded, onImageSaved func(string)) {
	mh.onImageLoaded = onImageLoaded
	mh.onImageSaved = onImageSaved
}
