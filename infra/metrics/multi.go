package metrics

import coremetrics "github.com/evnav/evnav/core/metrics"

// MultiSink fans recommendation records out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRecommendation forwards the record to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordRecommendation(rec coremetrics.RecommendationRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordRecommendation(rec); err != nil {
			return err
		}
	}
	return nil
}
