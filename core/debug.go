package core

// DebugWriter is a function type for writing debug messages
type DebugWriter func(string)

// Event captures one generator or port event for post-mortem analysis
type Event struct {
	Kind   uint8  // Event type code
	Clock  uint32 // Millisecond clock at event
	Value1 uint32 // Context-dependent value
	Value2 uint32 // Context-dependent value
}

// Event type codes
const (
	EvtAnalogByte = 1 // Analog byte produced (v1=byte, v2=elapsed ms)
	EvtMotionByte = 2 // Motion byte produced (v1=byte, v2=elapsed ms)
	EvtSensorFail = 3 // Motion sensor access failed
	EvtFrameSent  = 4 // Frame written to UART (v1=seq, v2=len)
)

const (
	EventRingSize = 16
)

var (
	// debugPrintln is the global debug print function (can be set by platform code)
	debugPrintln DebugWriter = func(s string) {}

	// debugEnabled controls whether debug output is active
	debugEnabled bool = false

	eventRing     [EventRingSize]Event
	eventRingHead uint8
)

// SetDebugWriter sets the platform-specific debug output function
func SetDebugWriter(writer DebugWriter) {
	debugPrintln = writer
}

// SetDebugEnabled enables or disables debug output
func SetDebugEnabled(enabled bool) {
	debugEnabled = enabled
}

// IsDebugEnabled returns whether debug output is enabled
func IsDebugEnabled() bool {
	return debugEnabled
}

// DebugPrintln writes a debug message using the platform-specific writer
func DebugPrintln(msg string) {
	if debugEnabled && debugPrintln != nil {
		debugPrintln(msg)
	}
}

// RecordEvent stores an event in the ring, overwriting the oldest entry
func RecordEvent(kind uint8, value1, value2 uint32) {
	idx := eventRingHead
	eventRing[idx] = Event{
		Kind:   kind,
		Clock:  GetTime(),
		Value1: value1,
		Value2: value2,
	}
	eventRingHead = (idx + 1) % EventRingSize
}

// Events returns the recorded events, oldest first.
func Events() []Event {
	out := make([]Event, 0, EventRingSize)
	start := eventRingHead
	for i := uint8(0); i < EventRingSize; i++ {
		evt := eventRing[(start+i)%EventRingSize]
		if evt.Kind == 0 {
			continue
		}
		out = append(out, evt)
	}
	return out
}

// DumpEvents writes the ring through the debug writer when debug output is
// enabled
func DumpEvents() {
	if !IsDebugEnabled() || debugPrintln == nil {
		return
	}
	debugPrintln("[EVT] === Event Ring Dump ===")
	for _, evt := range Events() {
		var name string
		switch evt.Kind {
		case EvtAnalogByte:
			name = "ANALOG"
		case EvtMotionByte:
			name = "MOTION"
		case EvtSensorFail:
			name = "SENSOR_FAIL!"
		case EvtFrameSent:
			name = "FRAME"
		default:
			name = "UNKNOWN"
		}
		debugPrintln("[EVT] " + name +
			" clock=" + Utoa(evt.Clock) +
			" v1=" + Utoa(evt.Value1) +
			" v2=" + Utoa(evt.Value2))
	}
	debugPrintln("[EVT] === End Dump ===")
}

// ClearEvents empties the ring
func ClearEvents() {
	for i := range eventRing {
		eventRing[i] = Event{}
	}
	eventRingHead = 0
}
