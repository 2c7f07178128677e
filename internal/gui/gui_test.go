package gui

import (
	"math"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	logrustest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"morphology-workbench/internal/config"
	"morphology-workbench/internal/core"
)

func TestPreviewImageConvertsAndBounds(t *testing.T) {
	small := gocv.NewMatWithSize(20, 40, gocv.MatTypeCV8UC3)
	defer small.Close()

	img, err := previewImage(small, 64)
	require.NoError(t, err)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	large := gocv.NewMatWithSize(100, 400, gocv.MatTypeCV8UC3)
	defer large.Close()

	img, err = previewImage(large, 64)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 16, img.Bounds().Dy())

	empty := gocv.NewMat()
	defer empty.Close()
	_, err = previewImage(empty, 64)
	assert.Error(t, err)
}

func TestDescribeResult(t *testing.T) {
	r := core.Result{Task: core.Task{Operation: "Opening"}, Elapsed: time.Millisecond}
	assert.Equal(t, "Opening", describeResult(r))

	r.Metrics = map[string]float64{"psnr": math.Inf(1), "changed_ratio": 0}
	assert.Equal(t, "Opening - unchanged", describeResult(r))

	r.Metrics = map[string]float64{"psnr": 31.456, "changed_ratio": 0.125}
	assert.Equal(t, "Opening - PSNR 31.46 dB, 12.5% pixels changed", describeResult(r))
}

func TestToolbarCallbacks(t *testing.T) {
	test.NewApp()

	tb := NewToolbar()
	var (
		uploads   int
		processed []string
		downloads int
	)
	tb.SetCallbacks(
		func() { uploads++ },
		func(op string) { processed = append(processed, op) },
		func() { downloads++ },
	)

	test.Tap(tb.uploadBtn)
	test.Tap(tb.processBtn)
	tb.operation.SetSelected("Closing")
	test.Tap(tb.processBtn)

	// download stays disabled until a result exists
	test.Tap(tb.downloadBtn)
	tb.SetResultAvailable(true)
	test.Tap(tb.downloadBtn)

	assert.Equal(t, 1, uploads)
	assert.Equal(t, []string{"Erosion", "Closing"}, processed)
	assert.Equal(t, 1, downloads)
}

func newTestApplication(t *testing.T) (*Application, *logrustest.Hook) {
	t.Helper()

	logger, hook := logrustest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)

	a := NewApplication(test.NewApp(), logger, config.Default())
	t.Cleanup(a.cleanup)
	return a, hook
}

func selectSource(t *testing.T, a *Application, path string) {
	t.Helper()

	mat := gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3)
	defer mat.Close()
	require.NoError(t, a.imageData.SetOriginal(mat, path))
}

func TestProcessWithoutImageEnqueuesNothing(t *testing.T) {
	a, hook := newTestApplication(t)

	a.startProcessing("Erosion")

	assert.Equal(t, 0, a.queue.Len())

	var warned bool
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "QUEUE: Task enqueued", e.Message)
		if e.Level == logrus.WarnLevel && e.Message == "Process requested without a selected image" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestDisplayResultIgnoresPreviousSource(t *testing.T) {
	a, _ := newTestApplication(t)
	selectSource(t, a, "/tmp/in.png")

	a.displayResult(core.Result{
		Task:  core.Task{ID: uuid.New(), Source: "/tmp/other.png", Operation: "Erosion"},
		Image: gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3),
	})

	assert.False(t, a.imageData.HasResult())
	assert.True(t, a.toolbar.downloadBtn.Disabled())
}

func TestDisplayResultStoresCurrentSource(t *testing.T) {
	a, _ := newTestApplication(t)
	selectSource(t, a, "/tmp/in.png")

	id := uuid.New()
	a.displayResult(core.Result{
		Task:  core.Task{ID: id, Source: "/tmp/in.png", Operation: "Dilation"},
		Image: gocv.NewMatWithSize(8, 8, gocv.MatTypeCV8UC3),
	})

	assert.True(t, a.imageData.HasResult())
	assert.Equal(t, id, a.imageData.ResultTaskID())
	assert.False(t, a.toolbar.downloadBtn.Disabled())
}
