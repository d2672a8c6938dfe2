package app

import "github.com/hyperifyio/sirenextract/internal/pipeline"

// Stats are session counters for operator display. They are held by the
// caller and have no effect on extraction.
type Stats struct {
	Extractions int
	ValidFound  int
}

// Record counts one finished extraction.
func (s *Stats) Record(r pipeline.Report) {
	s.Extractions++
	s.ValidFound += len(r.Valid)
}
