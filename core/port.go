// Digital I/O ports of the ATmega2560.
// Each port is three adjacent data-space registers: PINx, DDRx, PORTx.
package core

// PortName identifies one of the eleven I/O ports. There is no port I.
type PortName uint8

const (
	PortA PortName = iota
	PortB
	PortC
	PortD
	PortE
	PortF
	PortG
	PortH
	PortJ
	PortK
	PortL

	numPorts = int(PortL) + 1
)

// Register offsets from a port's base address
const (
	RegPIN  = 0 // write 1 to toggle PORTxn, read current state
	RegDDR  = 1 // direction: 1 = output, 0 = input
	RegPORT = 2 // output drive / pull-up enable

	PinsPerPort = 8
)

// portBase is the data-space address of PINx for every port, indexed by PortName.
// Ports H..L sit above the 64 I/O locations and are only reachable as memory.
var portBase = [numPorts]uintptr{
	PortA: 0x20,
	PortB: 0x23,
	PortC: 0x26,
	PortD: 0x29,
	PortE: 0x2C,
	PortF: 0x2F,
	PortG: 0x32,
	PortH: 0x100,
	PortJ: 0x103,
	PortK: 0x106,
	PortL: 0x109,
}

var portLetters = "ABCDEFGHJKL"

// Valid reports whether n names a real port.
func (n PortName) Valid() bool {
	return int(n) < numPorts
}

// Address returns the base (PINx) address of the port.
func (n PortName) Address() uintptr {
	if !n.Valid() {
		return 0
	}
	return portBase[n]
}

func (n PortName) String() string {
	if !n.Valid() {
		return "Port?"
	}
	return "Port" + portLetters[n:n+1]
}

// PortByAddress maps a base address back to its port.
func PortByAddress(addr uintptr) (PortName, bool) {
	for i, base := range portBase {
		if base == addr {
			return PortName(i), true
		}
	}
	return 0, false
}

// IOMode selects the value written to a pin's DDRxn bit.
type IOMode uint8

const (
	Input IOMode = iota
	Output
)

func (m IOMode) String() string {
	if m == Output {
		return "output"
	}
	return "input"
}

// GuardPolicy decides how High and Low inspect the port before toggling.
type GuardPolicy uint8

const (
	// GuardWholeRegister compares the entire PORTx value against zero and the
	// entire DDRx value against the pin mask. Only correct when the pin is the
	// sole user of its port.
	GuardWholeRegister GuardPolicy = iota

	// GuardTargetBit compares only the pin's own bit in PORTx and DDRx.
	GuardTargetBit
)

// RegisterPort is the handle for one port's register block. Handles are
// issued by a Registry and must not be copied.
type RegisterPort struct {
	name  PortName
	base  uintptr
	bus   RegisterBus
	guard GuardPolicy
}

// Name returns the port this handle is bound to.
func (p *RegisterPort) Name() PortName {
	return p.name
}

// Base returns the PINx address.
func (p *RegisterPort) Base() uintptr {
	return p.base
}

// ReadPIN, ReadDDR and ReadPORT perform a single volatile read.
func (p *RegisterPort) ReadPIN() uint8  { return p.bus.Load(p.base + RegPIN) }
func (p *RegisterPort) ReadDDR() uint8  { return p.bus.Load(p.base + RegDDR) }
func (p *RegisterPort) ReadPORT() uint8 { return p.bus.Load(p.base + RegPORT) }

// Pin returns a view on bit index of this port.
// The second result is false when index is outside [0, 8).
func (p *RegisterPort) Pin(index int) (Pin, bool) {
	if p == nil || index < 0 || index >= PinsPerPort {
		return Pin{}, false
	}
	return Pin{port: p, index: uint8(index)}, true
}

// Pin is one bit of a RegisterPort. The zero Pin is detached and every
// operation on it is a no-op.
type Pin struct {
	port  *RegisterPort
	index uint8
}

// Index returns the bit number within the port.
func (p Pin) Index() int {
	return int(p.index)
}

// Port returns the owning register block, or nil for a detached pin.
func (p Pin) Port() *RegisterPort {
	return p.port
}

func (p Pin) attached() bool {
	return p.port != nil && p.index < PinsPerPort
}

func (p Pin) mask() uint8 {
	return 1 << p.index
}

// SetPinMode clears the pin's DDRxn bit and sets it again for Output.
func (p Pin) SetPinMode(mode IOMode) {
	if !p.attached() {
		return
	}
	ddr := p.port.ReadDDR()
	ddr &^= p.mask()
	if mode == Output {
		ddr |= p.mask()
	}
	p.port.bus.Store(p.port.base+RegDDR, ddr)
}

// Output configures the pin as an output.
func (p Pin) Output() {
	p.SetPinMode(Output)
}

// Input configures the pin as an input.
func (p Pin) Input() {
	p.SetPinMode(Input)
}

// Toggle writes the pin mask to PINx, which flips PORTxn whatever the direction.
func (p Pin) Toggle() {
	if !p.attached() {
		return
	}
	p.port.bus.Store(p.port.base+RegPIN, p.mask())
}

// High drives an output pin high. No-op on inputs or when already high.
func (p Pin) High() {
	if !p.attached() {
		return
	}
	port, isOutput := p.sample()
	if !isOutput {
		return
	}
	switch p.port.guard {
	case GuardTargetBit:
		if port&p.mask() == 0 {
			p.Toggle()
		}
	default:
		if port == 0 {
			p.Toggle()
		}
	}
}

// Low drives an output pin low. No-op on inputs or when already low.
func (p Pin) Low() {
	if !p.attached() {
		return
	}
	port, isOutput := p.sample()
	if !isOutput {
		return
	}
	switch p.port.guard {
	case GuardTargetBit:
		if port&p.mask() != 0 {
			p.Toggle()
		}
	default:
		if port != 0 {
			p.Toggle()
		}
	}
}

// sample reads PORTx then DDRx and applies the port's guard policy to the
// direction check.
func (p Pin) sample() (port uint8, isOutput bool) {
	port = p.port.ReadPORT()
	ddr := p.port.ReadDDR()
	if p.port.guard == GuardTargetBit {
		return port, ddr&p.mask() != 0
	}
	return port, ddr == p.mask()
}
