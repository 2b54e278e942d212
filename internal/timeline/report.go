package timeline

// Report is a diagnostic emitted while rebuilding a timeline. Engine stages
// never abort on bad data; they skip the offending piece and report it.
type Report struct {
	T       float64 `json:"t"`
	Code    string  `json:"code"`
	ActorID string  `json:"actorId,omitempty"`
	EventID string  `json:"eventId,omitempty"`
	Detail  string  `json:"detail,omitempty"`
}

const (
	ReportMissingProfile = "missing-profile"
	ReportFillerLoopCap  = "filler-loop-cap"
	ReportFillerState    = "filler-state"
	ReportBonusDropped   = "bonus-dropped"
)

type emitFunc func(Report)

func (f emitFunc) emit(r Report) {
	if f != nil {
		f(r)
	}
}
