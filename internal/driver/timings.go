package driver

import (
	"encoding/json"

	"pyrefs/internal/observ"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	Cached  bool                 `json:"cached,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// TimingJSON renders one file's phase timings as a single JSON line.
func TimingJSON(res *Result) ([]byte, error) {
	payload := timingPayload{
		Kind:    "extract",
		Path:    res.Path,
		Cached:  res.Cached,
		TotalMS: res.Timing.TotalMS,
		Phases:  res.Timing.Phases,
	}
	if payload.Phases == nil {
		payload.Phases = []observ.PhaseReport{}
	}
	return json.Marshal(payload)
}
