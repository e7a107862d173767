package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Fepozopo/point/pkg/codec"
	"github.com/Fepozopo/point/pkg/filter"
	"github.com/Fepozopo/point/pkg/logging"
	"github.com/Fepozopo/point/pkg/telemetry"
)

// Job is one invocation of the filter pipeline.
type Job struct {
	Input   string
	Output  string
	Request filter.Request
	Quality int
	// Strict turns a skipped transform into a failure with no output.
	Strict bool

	MetricsFile string
	ReportFile  string
}

// Outcome describes what a finished job did.
type Outcome struct {
	Source     Dimensions
	Result     Dimensions
	ColorSpace filter.ColorSpace
	Applied    bool
	Duration   time.Duration

	// OutputColorSpace is what the written file decodes as.
	OutputColorSpace filter.ColorSpace

	// Skipped holds the reason the transform was not applied.
	Skipped error
}

// Run decodes the input, applies the requested filter and writes the output.
// Outside strict mode a transform the engine refuses is logged and the
// decoded image is written unchanged.
func Run(job Job) (*Outcome, error) {
	log := logging.L().With("filter", string(job.Request.Filter))
	rec := telemetry.NewRecorder()
	req := job.Request

	fail := func(d time.Duration, err error) (*Outcome, error) {
		rec.ObserveTransform(string(req.Filter), telemetry.OutcomeFailed, d)
		writeMetrics(rec, job.MetricsFile)
		return nil, err
	}

	raster, err := codec.DecodeFile(job.Input)
	if err != nil {
		return fail(0, err)
	}
	log.Debug("decoded input", "path", job.Input, "width", raster.Width, "height", raster.Height,
		"components", raster.Components, "color_space", raster.ColorSpace.String())

	out := &Outcome{
		Source:     dimensionsOf(raster),
		ColorSpace: raster.ColorSpace,
	}

	result := raster
	outcome := telemetry.OutcomeSkipped
	if req.Filter == filter.Flip && req.Axis != filter.Horizontal && req.Axis != filter.Vertical {
		axisErr := fmt.Errorf("%w: %s", filter.ErrUnknownAxis, req.Axis)
		if job.Strict {
			return fail(0, axisErr)
		}
		out.Skipped = axisErr
		log.Warn("flip axis not recognized, image left unchanged", "axis", string(req.Axis))
	} else {
		start := time.Now()
		var applyErr error
		result, applyErr = filter.Apply(raster, req)
		out.Duration = time.Since(start)

		switch {
		case applyErr == nil:
			out.Applied = true
			outcome = telemetry.OutcomeApplied
		case job.Strict || !skippable(applyErr):
			return fail(out.Duration, fmt.Errorf("applying %s: %w", req.Filter, applyErr))
		default:
			out.Skipped = applyErr
			log.Warn("transform skipped, writing image unchanged", "reason", applyErr.Error())
		}
	}

	out.OutputColorSpace = outputColorSpace(log, result.ColorSpace)
	if err := codec.EncodeFile(result, job.Output, job.Quality); err != nil {
		return fail(out.Duration, err)
	}
	rec.ObserveTransform(string(req.Filter), outcome, out.Duration)
	out.Result = dimensionsOf(result)
	out.Result.Components = componentsOf(out.OutputColorSpace, result.Components)
	rec.SetOutputPixels(result.Width, result.Height)
	log.Debug("wrote output", "path", job.Output, "width", result.Width, "height", result.Height,
		"applied", out.Applied, "elapsed", out.Duration)

	if job.MetricsFile != "" {
		if err := rec.WriteFile(job.MetricsFile); err != nil {
			return out, fmt.Errorf("writing metrics: %w", err)
		}
	}
	if job.ReportFile != "" {
		if err := WriteReport(job.ReportFile, NewReport(job, out)); err != nil {
			return out, err
		}
	}
	return out, nil
}

// outputColorSpace returns the color space the written file will decode as
// and warns when it differs from cs.
func outputColorSpace(log *slog.Logger, cs filter.ColorSpace) filter.ColorSpace {
	written := codec.OutputColorSpace(cs)
	if written != cs {
		log.Warn("output color space differs from input, samples are converted",
			"input", cs.String(), "output", written.String())
	}
	return written
}

func componentsOf(cs filter.ColorSpace, fallback int) int {
	switch cs {
	case filter.ColorSpaceGrayscale:
		return 1
	case filter.ColorSpaceRGB:
		return 3
	case filter.ColorSpaceCMYK:
		return 4
	}
	return fallback
}

// skippable reports whether err is a refusal the compatible mode tolerates.
func skippable(err error) bool {
	return errors.Is(err, filter.ErrUnsupportedColorSpace) ||
		errors.Is(err, filter.ErrUnknownFilter) ||
		errors.Is(err, filter.ErrUnknownDirection)
}

func writeMetrics(rec *telemetry.Recorder, path string) {
	if path == "" {
		return
	}
	if err := rec.WriteFile(path); err != nil {
		logging.L().Error("writing metrics", "path", path, "err", err)
	}
}

func dimensionsOf(r *filter.Raster) Dimensions {
	return Dimensions{Width: r.Width, Height: r.Height, Components: r.Components}
}
