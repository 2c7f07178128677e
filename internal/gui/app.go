// Main application window wiring the presentation shell to the worker pool
package gui

import (
	"context"
	"fmt"
	"math"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"morphology-workbench/internal/config"
	"morphology-workbench/internal/core"
	"morphology-workbench/internal/io"
	"morphology-workbench/internal/metrics"
)

const (
	AppName    = "Morphology Workbench"
	AppID      = "com.morphology.workbench"
	AppVersion = "1.0.0"

	resultBuffer = 8
)

// Application represents the main window and the processing core behind it
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    config.Config

	// Core components
	imageData *core.ImageData
	loader    *io.ImageLoader
	queue     *core.TaskQueue
	pool      *core.Pool
	sink      core.Sink
	stopSink  context.CancelFunc

	// GUI components
	toolbar     *Toolbar
	centerPanel *CenterPanel
	menuHandler *MenuHandler
	status      *widget.Label
}

func NewApplication(app fyne.App, logger *logrus.Logger, cfg config.Config) *Application {
	window := app.NewWindow(AppName)
	window.Resize(fyne.NewSize(900, 600))
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		cfg:    cfg,
	}

	a.initializeCore()
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a
}

func (a *Application) initializeCore() {
	a.imageData = core.NewImageData()
	a.loader = io.NewImageLoader(a.logger)
	a.queue = core.NewTaskQueue(a.logger)

	switch a.cfg.Delivery {
	case config.DeliveryDirect:
		// synchronous handoff: the worker waits until the UI goroutine has taken the result
		a.sink = core.SinkFunc(func(r core.Result) {
			fyne.DoAndWait(func() {
				a.displayResult(r)
			})
		})
		a.stopSink = func() {}
	default:
		async := core.NewAsyncSink(a.displayResult, fyne.Do, resultBuffer, a.logger)
		ctx, cancel := context.WithCancel(context.Background())
		go async.Run(ctx)
		a.sink = async
		a.stopSink = cancel
	}

	processor := core.NewProcessor(a.loader, metrics.NewEvaluator(), a.logger)
	a.pool = core.NewPool(a.queue, processor, a.sink, a.logger,
		core.WithWorkers(a.cfg.Workers),
		core.WithFailureHandler(a.taskFailed),
	)
	a.pool.Start()
}

func (a *Application) initializeGUI() {
	a.toolbar = NewToolbar()
	a.centerPanel = NewCenterPanel(a.cfg.PreviewMax)
	a.menuHandler = NewMenuHandler(a.window, a.imageData, a.loader, a.logger)
	a.status = widget.NewLabel("Upload an image to begin")
}

func (a *Application) setupLayout() {
	content := container.NewBorder(
		nil,
		container.NewVBox(widget.NewSeparator(), a.toolbar.GetContainer(), a.status),
		nil,
		nil,
		container.NewPadded(a.centerPanel.GetContainer()),
	)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(content)
}

func (a *Application) setupCallbacks() {
	a.menuHandler.SetCallbacks(
		// onImageLoaded
		func(path string) {
			original := a.imageData.GetOriginal()
			defer original.Close()

			preview, err := a.centerPanel.Preview(original)
			if err != nil {
				a.showError("Preview Error", err)
				return
			}
			a.centerPanel.SetOriginal(preview)
			a.centerPanel.ClearResult()
			a.toolbar.SetResultAvailable(false)
			a.updateStatusMessage(fmt.Sprintf("Loaded: %s", filepath.Base(path)))
		},
		// onImageSaved
		func(path string) {
			a.updateStatusMessage(fmt.Sprintf("Saved: %s", path))
		},
	)

	a.toolbar.SetCallbacks(
		a.menuHandler.openImage,
		a.startProcessing,
		a.menuHandler.saveImage,
	)
}

// startProcessing enqueues the selected image. It never blocks the UI goroutine.
func (a *Application) startProcessing(operation string) {
	if !a.imageData.HasImage() {
		a.logger.Warn("Process requested without a selected image")
		dialog.ShowInformation("No Image", "Please upload an image first.", a.window)
		return
	}

	task := a.queue.Enqueue(a.imageData.GetFilepath(), operation)
	a.updateStatusMessage(fmt.Sprintf("Queued %s (%d pending)", operation, a.queue.Len()))
	a.logger.WithFields(logrus.Fields{
		"task_id":   task.ID,
		"operation": operation,
	}).Info("Processing requested")
}

// displayResult runs on the UI goroutine and takes ownership of r.Image.
func (a *Application) displayResult(r core.Result) {
	if r.Task.Source != a.imageData.GetFilepath() {
		a.logger.WithField("task_id", r.Task.ID).Debug("Result for a previous source ignored")
		r.Close()
		return
	}

	preview, err := a.centerPanel.Preview(r.Image)
	if err != nil {
		r.Close()
		a.showError("Display Error", err)
		return
	}

	if err := a.imageData.SetResult(r); err != nil {
		r.Close()
		a.showError("Display Error", err)
		return
	}

	a.centerPanel.SetResult(preview, describeResult(r))
	a.toolbar.SetResultAvailable(true)
	a.updateStatusMessage(fmt.Sprintf("%s finished in %d ms", r.Task.Operation, r.Elapsed.Milliseconds()))
}

// taskFailed runs on a worker goroutine; failures go to the status line, not a dialog.
func (a *Application) taskFailed(task core.Task, err error) {
	fyne.Do(func() {
		a.updateStatusMessage(fmt.Sprintf("%s on %s dropped: %v", task.Operation, filepath.Base(task.Source), err))
	})
}

func describeResult(r core.Result) string {
	psnr, ok := r.Metrics["psnr"]
	if !ok {
		return r.Task.Operation
	}
	if math.IsInf(psnr, 1) {
		return fmt.Sprintf("%s - unchanged", r.Task.Operation)
	}
	return fmt.Sprintf("%s - PSNR %.2f dB, %.1f%% pixels changed",
		r.Task.Operation, psnr, 100*r.Metrics["changed_ratio"])
}

func (a *Application) updateStatusMessage(message string) {
	a.status.SetText(message)
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.updateStatusMessage(fmt.Sprintf("Error: %s", err.Error()))
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing main application window")

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})

	a.window.ShowAndRun()
}

// cleanup discards pending tasks. The pool is joined off the UI goroutine because a
// worker using direct delivery may be waiting on it.
func (a *Application) cleanup() {
	a.logger.Info("Cleaning up application resources")
	a.stopSink()
	go a.pool.Stop()
	a.imageData.Close()
}
