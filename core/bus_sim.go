package core

// SimSpaceSize covers the register file, the I/O space and the extended I/O
// space up to and including port L.
const SimSpaceSize = 0x200

// Access is one recorded bus transaction
type Access struct {
	Write bool
	Addr  uintptr
	Value uint8
}

// SimBus emulates the ATmega2560 data space for hosted builds and tests.
// Writing to a PINx register flips the matching PORTx bits instead of storing
// the value, as the silicon does. Reading PINx returns the current PORTx drive
// state.
type SimBus struct {
	mem [SimSpaceSize]uint8
	log []Access
}

// NewSimBus creates a zeroed data space that logs every access.
func NewSimBus() *SimBus {
	return &SimBus{}
}

func (s *SimBus) Load(addr uintptr) uint8 {
	if addr >= SimSpaceSize {
		return 0
	}
	v := s.mem[addr]
	if _, ok := PortByAddress(addr); ok {
		v = s.mem[addr+RegPORT]
	}
	s.record(Access{Addr: addr, Value: v})
	return v
}

func (s *SimBus) Store(addr uintptr, v uint8) {
	if addr >= SimSpaceSize {
		return
	}
	s.record(Access{Write: true, Addr: addr, Value: v})
	if _, ok := PortByAddress(addr); ok {
		s.mem[addr+RegPORT] ^= v
		return
	}
	s.mem[addr] = v
}

// Peek reads memory without logging or PINx translation.
func (s *SimBus) Peek(addr uintptr) uint8 {
	if addr >= SimSpaceSize {
		return 0
	}
	return s.mem[addr]
}

// Poke writes memory without logging or toggle semantics.
func (s *SimBus) Poke(addr uintptr, v uint8) {
	if addr < SimSpaceSize {
		s.mem[addr] = v
	}
}

// Accesses returns the ordered transaction log.
func (s *SimBus) Accesses() []Access {
	return s.log
}

// ResetLog clears the transaction log.
func (s *SimBus) ResetLog() {
	s.log = s.log[:0]
}

func (s *SimBus) record(a Access) {
	s.log = append(s.log, a)
}
