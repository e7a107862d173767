package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Fepozopo/point/pkg/filter"
)

type Dimensions struct {
	Width      int `yaml:"width"`
	Height     int `yaml:"height"`
	Components int `yaml:"components"`
}

// Report is the YAML sidecar written with --report.
type Report struct {
	Input            string     `yaml:"input"`
	Output           string     `yaml:"output"`
	Filter           string     `yaml:"filter"`
	Percent          float64    `yaml:"percent,omitempty"`
	Multiplier       float64    `yaml:"multiplier,omitempty"`
	Axis             string     `yaml:"axis,omitempty"`
	Direction        string     `yaml:"direction,omitempty"`
	ColorSpace       string     `yaml:"color_space"`
	OutputColorSpace string     `yaml:"output_color_space"`
	Source           Dimensions `yaml:"source"`
	Result           Dimensions `yaml:"result"`
	Applied          bool       `yaml:"applied"`
	Skipped          string     `yaml:"skipped,omitempty"`
	Quality          int        `yaml:"quality"`
	ElapsedMS        float64    `yaml:"elapsed_ms"`
}

// NewReport summarizes a finished job. Only the parameter the filter reads
// is recorded.
func NewReport(job Job, out *Outcome) Report {
	rep := Report{
		Input:            job.Input,
		Output:           job.Output,
		Filter:           string(job.Request.Filter),
		ColorSpace:       out.ColorSpace.String(),
		OutputColorSpace: out.OutputColorSpace.String(),
		Source:           out.Source,
		Result:           out.Result,
		Applied:          out.Applied,
		Quality:          job.Quality,
		ElapsedMS:        float64(out.Duration.Microseconds()) / 1000,
	}
	switch job.Request.Filter {
	case filter.Brightness:
		rep.Percent = job.Request.Percent
	case filter.Contrast:
		rep.Multiplier = job.Request.Multiplier
	case filter.Flip:
		rep.Axis = string(job.Request.Axis)
	case filter.Rotate:
		rep.Direction = string(job.Request.Direction)
	}
	if out.Skipped != nil {
		rep.Skipped = out.Skipped.Error()
	}
	return rep
}

func WriteReport(path string, rep Report) error {
	b, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing report %s: %w", path, err)
	}
	return nil
}
