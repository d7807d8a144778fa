package core

import "errors"

var (
	ErrPortClaimed = errors.New("port already claimed")
	ErrUnknownPort = errors.New("unknown port")
)

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithGuard selects the High/Low guard semantics for every port handed out.
func WithGuard(g GuardPolicy) RegistryOption {
	return func(r *Registry) {
		r.guard = g
	}
}

// Registry owns one pre-built handle per port and hands each out once.
// It is not safe for concurrent use; claims happen during startup.
type Registry struct {
	bus     RegisterBus
	guard   GuardPolicy
	ports   [numPorts]RegisterPort
	claimed [numPorts]bool
}

// NewRegistry builds the handle arena for bus.
func NewRegistry(bus RegisterBus, opts ...RegistryOption) *Registry {
	r := &Registry{bus: bus}
	for _, opt := range opts {
		opt(r)
	}
	for i := range r.ports {
		r.ports[i] = RegisterPort{
			name:  PortName(i),
			base:  portBase[i],
			bus:   bus,
			guard: r.guard,
		}
	}
	return r
}

// Acquire claims the handle for name. A second claim of the same port fails
// with ErrPortClaimed, so two writers can never share a register block.
func (r *Registry) Acquire(name PortName) (*RegisterPort, error) {
	if !name.Valid() {
		return nil, ErrUnknownPort
	}
	if r.claimed[name] {
		return nil, &PortError{Port: name, Err: ErrPortClaimed}
	}
	r.claimed[name] = true
	DebugPrintln("[PORT] claimed " + name.String() + " @0x" + hex16(uint16(portBase[name])))
	return &r.ports[name], nil
}

// MustAcquire panics where Acquire would fail.
func (r *Registry) MustAcquire(name PortName) *RegisterPort {
	p, err := r.Acquire(name)
	if err != nil {
		panic(err.Error())
	}
	return p
}

// Claimed reports whether name has been handed out.
func (r *Registry) Claimed(name PortName) bool {
	return name.Valid() && r.claimed[name]
}

// PortError ties a registry failure to a port.
type PortError struct {
	Port PortName
	Err  error
}

func (e *PortError) Error() string {
	return e.Port.String() + ": " + e.Err.Error()
}

func (e *PortError) Unwrap() error {
	return e.Err
}
