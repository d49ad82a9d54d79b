package main

import (
	"flag"
	"strings"

	"github.com/bassosimone/congsim"
	"github.com/pkg/errors"
)

// args collects the parsed command-line flags for a single run.
type args struct {
	kind       string
	algorithms string
	routers    int
	buffer     int
	txDelay    float64
	propDelay  float64
	rwnd       int
	dataBytes  int
	iterations int
	verbose    bool
	reporting  string
	csvFile    string
	pcapFile   string
}

// parseArgs parses fs against argv and validates the result.
func parseArgs(fs *flag.FlagSet, argv []string) (*args, error) {
	a := &args{}
	fs.StringVar(&a.kind, "topology", "direct", "topology shape: direct or cloud")
	fs.StringVar(&a.algorithms, "algorithms", "newreno", "comma-separated congestion-control algorithms, one per flow: tahoe, reno, newreno")
	fs.IntVar(&a.routers, "routers", 1, "number of routers in the shared chain")
	fs.IntVar(&a.buffer, "buffer", congsim.DefaultRouterBuffer, "router buffer size in bytes")
	fs.Float64Var(&a.txDelay, "tx-delay", 0.01, "transmission delay per link, as a fraction of one tick")
	fs.Float64Var(&a.propDelay, "prop-delay", 0.01, "propagation delay per link, as a fraction of one tick")
	fs.IntVar(&a.rwnd, "rwnd", 64*1024, "initial receiver window in bytes")
	fs.IntVar(&a.dataBytes, "data-bytes", 8*1024*1024, "size of each flow's bulk transfer in bytes")
	fs.IntVar(&a.iterations, "iterations", 100000, "maximum number of ticks to run")
	fs.BoolVar(&a.verbose, "verbose", false, "enable debug logging")
	fs.StringVar(&a.reporting, "reporting", "simulator", "comma-separated reporting categories: simulator, links, routers, senders, receivers, rto, all")
	fs.StringVar(&a.csvFile, "csv", "", "write per-flow statistics to this CSV file")
	fs.StringVar(&a.pcapFile, "pcap", "", "write a synthesized PCAP trace to this file")
	if err := fs.Parse(argv); err != nil {
		return nil, err
	}
	if err := a.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *args) validate() error {
	if len(a.algorithmList()) == 0 {
		return errors.Wrap(congsim.ErrInvalidCount, "-algorithms must name at least one algorithm")
	}
	return nil
}

func (a *args) algorithmList() []string {
	var out []string
	for _, s := range strings.Split(a.algorithms, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseReporting(raw string) congsim.ReportingFlags {
	var flags congsim.ReportingFlags
	for _, s := range strings.Split(raw, ",") {
		switch strings.TrimSpace(strings.ToLower(s)) {
		case "simulator":
			flags |= congsim.ReportingSimulator
		case "links":
			flags |= congsim.ReportingLinks
		case "routers":
			flags |= congsim.ReportingRouters
		case "senders":
			flags |= congsim.ReportingSenders
		case "receivers":
			flags |= congsim.ReportingReceivers
		case "rto":
			flags |= congsim.ReportingRTO
		case "all":
			flags |= congsim.ReportingSimulator | congsim.ReportingLinks | congsim.ReportingRouters |
				congsim.ReportingSenders | congsim.ReportingReceivers | congsim.ReportingRTO
		}
	}
	return flags
}
