// Package rete defines the data model and the cross-package interfaces
// of a forward-chaining production-rule engine built on a Rete-style
// discrimination network: facts, binding environments, elements,
// tokens, activations, accumulators, and the Rulebase value a compiler
// hands the runtime.
//
// This package depends on nothing else in the module. Every other
// package — memory, transport, listener, network, session — depends on
// it, never the reverse, which is what lets TransientMemory and
// TransientListener be defined here as interfaces and implemented
// concretely in memory and listener without an import cycle.
package rete
