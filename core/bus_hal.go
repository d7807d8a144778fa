package core

// RegisterBus performs single byte accesses on the data space.
// Implementations must not cache, merge or reorder accesses: every Load and
// Store reaches the backing memory in program order.
type RegisterBus interface {
	// Load reads the byte at addr
	Load(addr uintptr) uint8

	// Store writes v to addr
	Store(addr uintptr, v uint8)
}

// Global singleton used by core code.
var (
	registerBus     RegisterBus
	defaultRegistry *Registry
)

// SetRegisterBus is called by target-specific code to register its bus.
// It also rebuilds the process-wide port registry on top of that bus, so it
// belongs at startup only.
func SetRegisterBus(b RegisterBus, opts ...RegistryOption) {
	registerBus = b
	defaultRegistry = NewRegistry(b, opts...)
}

// MustBus returns the configured bus or panics if missing.
func MustBus() RegisterBus {
	if registerBus == nil {
		panic("register bus not configured")
	}
	return registerBus
}

// AcquirePort claims a port from the process-wide registry.
func AcquirePort(name PortName) (*RegisterPort, error) {
	if defaultRegistry == nil {
		panic("register bus not configured")
	}
	return defaultRegistry.Acquire(name)
}

// MustAcquirePort is AcquirePort for startup code that cannot recover.
func MustAcquirePort(name PortName) *RegisterPort {
	p, err := AcquirePort(name)
	if err != nil {
		panic(err.Error())
	}
	return p
}
