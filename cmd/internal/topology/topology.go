// Package topology contains helper code to build a [congsim.Topology]
// from command-line flags.
package topology

import (
	"github.com/bassosimone/congsim"
	"github.com/bassosimone/congsim/cmd/internal/optional"
	"github.com/pkg/errors"
)

// Args collects the flag values needed to build a [congsim.Topology].
type Args struct {
	Kind       string
	Algorithms []string
	Routers    int
	Buffer     int
	TxDelay    float64
	PropDelay  float64
	RWND       int
	DataBytes  int
	Logger     congsim.Logger
	Reporting  congsim.ReportingFlags
}

// New builds a [congsim.Topology] from args, selecting [congsim.NewDirectTopology]
// or [congsim.NewCloudTopology] depending on args.Kind.
//
// - kindOverride, if non-empty, allows a caller to use the already-parsed
// [congsim.TopologyKind] (e.g. from [congsim.ParseTopologyKind]) instead of
// re-parsing args.Kind.
func New(args Args, kindOverride optional.Value[congsim.TopologyKind]) (*congsim.Topology, error) {
	kind, err := resolveKind(args.Kind, kindOverride)
	if err != nil {
		return nil, err
	}

	algorithms, err := parseAlgorithms(args.Algorithms)
	if err != nil {
		return nil, err
	}

	cfg := congsim.Config{
		RouterCount:      args.Routers,
		RouterBufferSize: args.Buffer,
		LinkConfig: congsim.LinkConfig{
			TxDelay:   args.TxDelay,
			PropDelay: args.PropDelay,
		},
		InitialRWND:    args.RWND,
		TotalDataBytes: args.DataBytes,
		Logger:         args.Logger,
		Reporting:      args.Reporting,
	}

	switch kind {
	case congsim.DirectKind:
		if len(algorithms) != 1 {
			return nil, errors.Wrap(congsim.ErrInvalidCount, "direct topology takes exactly one algorithm")
		}
		t, err := congsim.NewDirectTopology(cfg, algorithms[0])
		return t, errors.Wrap(err, "congsim.NewDirectTopology")
	default:
		t, err := congsim.NewCloudTopology(cfg, algorithms)
		return t, errors.Wrap(err, "congsim.NewCloudTopology")
	}
}

func resolveKind(raw string, override optional.Value[congsim.TopologyKind]) (congsim.TopologyKind, error) {
	if !override.Empty() {
		return override.Unwrap(), nil
	}
	kind, err := congsim.ParseTopologyKind(raw)
	return kind, errors.Wrap(err, "congsim.ParseTopologyKind")
}

func parseAlgorithms(raw []string) ([]congsim.Algorithm, error) {
	algorithms := make([]congsim.Algorithm, 0, len(raw))
	for _, s := range raw {
		a, err := congsim.ParseAlgorithm(s)
		if err != nil {
			return nil, errors.Wrapf(err, "congsim.ParseAlgorithm(%q)", s)
		}
		algorithms = append(algorithms, a)
	}
	return algorithms, nil
}
