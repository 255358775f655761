package core

// Example models that are useful to have around.
//
// Alice and Bob share a critical section.  Each of a and b is 0
// (idle), 1 (wants in), or 2 (in the critical section).

// AliceBob0Source has no protocol at all, so both can be in the
// critical section at once.  It never deadlocks.
const AliceBob0Source = `// Alice and Bob without any protocol.
var a = 0; b = 0
| a1: [a == 0] / a = 1
| a2: [a == 1] / a = 2
| a3: [a == 2] / a = 0
| b1: [b == 0] / b = 1
| b2: [b == 1] / b = 2
| b3: [b == 2] / b = 0
`

// AliceBob1Source uses flags.  Mutual exclusion holds, but both can
// raise their flags and then wait forever.
const AliceBob1Source = `// Alice and Bob with flags.
var a = 0; fa = false; b = 0; fb = false
| a1: [a == 0] / fa = true; a = 1
| a2: [a == 1 && !fb] / a = 2
| a3: [a == 2] / fa = false; a = 0
| b1: [b == 0] / fb = true; b = 1
| b2: [b == 1 && !fa] / b = 2
| b3: [b == 2] / fb = false; b = 0
`

// ExclusionSource is a property automaton that clears status when
// it observes a step into a state where both are in the critical
// section.
const ExclusionSource = `// Mutual exclusion.
var status = true
| bad: [@(a' == 2 && b' == 2)] / status = false
| ok: [!@(a' == 2 && b' == 2)] / skip
`

// NoDeadlockSource is a property automaton that clears status when
// it observes a deadlock.
const NoDeadlockSource = `// No deadlock.
var status = true
| stuck: [@deadlock] / status = false
| live: [!@deadlock] / skip
`

// PropertyAccept is the accepting predicate for the example
// property automata.
const PropertyAccept = "!status"

// AliceBob0 compiles AliceBob0Source.
func AliceBob0() (*Model, error) {
	return CompileModel("alice-bob0", AliceBob0Source, nil)
}

// AliceBob1 compiles AliceBob1Source.
func AliceBob1() (*Model, error) {
	return CompileModel("alice-bob1", AliceBob1Source, nil)
}

// Exclusion compiles ExclusionSource against the given model.
func Exclusion(model *Model) (*Model, error) {
	return CompileModel("exclusion", ExclusionSource, model)
}

// NoDeadlock compiles NoDeadlockSource against the given model.
func NoDeadlock(model *Model) (*Model, error) {
	return CompileModel("no-deadlock", NoDeadlockSource, model)
}
