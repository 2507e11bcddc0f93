package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/mechsim/internal/sim"
)

type ExportData struct {
	Scenario string               `json:"scenario"`
	Dt       float64              `json:"dt"`
	Duration float64              `json:"duration"`
	Steps    int                  `json:"steps"`
	Times    []float64            `json:"times"`
	Probes   []string             `json:"probes"`
	Series   map[string][]float64 `json:"series"`
	Metrics  map[string]float64   `json:"metrics"`
}

// ExportJSON writes a run and its trace as one indented JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, result *sim.Result) error {
	data := ExportData{
		Scenario: meta.Scenario,
		Dt:       meta.Dt,
		Duration: meta.Duration,
		Steps:    result.Steps,
		Times:    result.Times,
		Probes:   result.Probes,
		Series:   result.Series,
		Metrics:  result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
