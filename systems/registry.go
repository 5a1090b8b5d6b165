package systems

// Tick phases in execution order.
const (
	PhaseInput      = "input"
	PhaseLocomotion = "locomotion"
	PhaseGait       = "gait"
	PhaseTelemetry  = "telemetry"
)

// PhaseInfo labels one timed stage of a tick.
type PhaseInfo struct {
	ID   string
	Name string
}

// SystemRegistry lists the tick phases. The perf collector is built from
// IDs, so timing rows and the perf panel share one order.
type SystemRegistry struct {
	phases []PhaseInfo
}

// NewSystemRegistry returns the phases run by Game.step.
func NewSystemRegistry() *SystemRegistry {
	return &SystemRegistry{phases: []PhaseInfo{
		{ID: PhaseInput, Name: "Input"},           // targets and pointer overrides
		{ID: PhaseLocomotion, Name: "Locomotion"}, // body, segment tree and limbs
		{ID: PhaseGait, Name: "Gait"},             // phase changes to events
		{ID: PhaseTelemetry, Name: "Telemetry"},   // samples and window flush
	}}
}

// IDs returns the phase IDs in execution order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.phases))
	for i, p := range r.phases {
		ids[i] = p.ID
	}
	return ids
}

// Name returns the display name for id, or id itself when unknown.
func (r *SystemRegistry) Name(id string) string {
	for _, p := range r.phases {
		if p.ID == id {
			return p.Name
		}
	}
	return id
}
