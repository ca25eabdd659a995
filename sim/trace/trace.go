package trace

// TraceLevel controls the verbosity of transition tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelReplicas captures one ReplicaRecord per finished replica.
	TraceLevelReplicas TraceLevel = "replicas"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:     true,
	TraceLevelReplicas: true,
	"":                 true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// Enabled reports whether records should be collected at all.
func (c TraceConfig) Enabled() bool {
	return c.Level == TraceLevelReplicas
}

// SimulationTrace collects replica records during a run, in replica order.
type SimulationTrace struct {
	Config   TraceConfig
	Replicas []ReplicaRecord
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
func NewSimulationTrace(config TraceConfig) *SimulationTrace {
	return &SimulationTrace{
		Config:   config,
		Replicas: make([]ReplicaRecord, 0),
	}
}

// RecordReplica appends a replica record.
func (st *SimulationTrace) RecordReplica(record ReplicaRecord) {
	st.Replicas = append(st.Replicas, record)
}
