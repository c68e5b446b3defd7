package core

import "time"

// RateWindowState captures the sliding window of admitted requests.
type RateWindowState struct {
	Count  int        `json:"count" yaml:"count"`
	Oldest *time.Time `json:"oldest,omitempty" yaml:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty" yaml:"newest,omitempty"`
}
