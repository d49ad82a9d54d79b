package congsim

import "errors"

// ErrUnknownAlgorithm indicates an unrecognized congestion-control algorithm name.
var ErrUnknownAlgorithm = errors.New("congsim: unknown congestion-control algorithm")

// ErrUnknownTopology indicates an unrecognized topology name.
var ErrUnknownTopology = errors.New("congsim: unknown topology")

// ErrNoRoute indicates that a router's forwarding table has no entry for a
// packet's destination. This is always a configuration error: the topology
// builder is responsible for populating every route before the first tick.
var ErrNoRoute = errors.New("congsim: no route to destination")

// ErrTimerAlreadyArmed indicates an attempt to arm an RTO timer for a sender
// that already has one running. At most one RTO timer may exist per sender.
var ErrTimerAlreadyArmed = errors.New("congsim: timer already armed")

// ErrTimerNotArmed indicates an attempt to cancel an RTO timer that is not
// currently running.
var ErrTimerNotArmed = errors.New("congsim: timer not armed")

// ErrInvalidIterations indicates a non-positive iteration count.
var ErrInvalidIterations = errors.New("congsim: iterations must be positive")

// ErrInvalidCount indicates a non-positive client or router count.
var ErrInvalidCount = errors.New("congsim: count must be positive")

// ErrDuplicateEndpoint indicates that an endpoint address was registered twice.
var ErrDuplicateEndpoint = errors.New("congsim: duplicate endpoint")
