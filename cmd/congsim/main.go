// Command congsim simulates TCP unidirectional bulk transfer under
// Tahoe, Reno, or NewReno congestion control, through a Direct or Cloud
// topology, and reports throughput, retransmission ratio, and timeout
// counts.
package main

import (
	"flag"
	"os"

	"github.com/apex/log"
	apexcli "github.com/apex/log/handlers/cli"
	"github.com/bassosimone/congsim"
	"github.com/bassosimone/congsim/cmd/internal/csvstats"
	"github.com/bassosimone/congsim/cmd/internal/optional"
	"github.com/bassosimone/congsim/cmd/internal/report"
	cmdtopology "github.com/bassosimone/congsim/cmd/internal/topology"
	"github.com/pkg/errors"
)

func main() {
	log.SetHandler(apexcli.Default)

	a, err := parseArgs(flag.NewFlagSet("congsim", flag.ContinueOnError), os.Args[1:])
	if err != nil {
		log.WithError(err).Fatal("congsim: invalid arguments")
	}
	if a.verbose {
		log.SetLevel(log.DebugLevel)
	}

	if err := run(a); err != nil {
		log.WithError(err).Fatal("congsim: run failed")
	}
}

func run(a *args) error {
	topo, err := cmdtopology.New(cmdtopology.Args{
		Kind:       a.kind,
		Algorithms: a.algorithmList(),
		Routers:    a.routers,
		Buffer:     a.buffer,
		TxDelay:    a.txDelay,
		PropDelay:  a.propDelay,
		RWND:       a.rwnd,
		DataBytes:  a.dataBytes,
		Logger:     log.Log,
		Reporting:  parseReporting(a.reporting),
	}, optional.None[congsim.TopologyKind]())
	if err != nil {
		return errors.Wrap(err, "cmdtopology.New")
	}

	if a.pcapFile != "" {
		tracer, err := congsim.NewPCAPTracer(a.pcapFile, log.Log)
		if err != nil {
			return errors.Wrap(err, "congsim.NewPCAPTracer")
		}
		defer tracer.Close()
		topo.SetTracer(tracer)
	}

	ran, err := topo.Run(a.iterations)
	if err != nil {
		return errors.Wrap(err, "congsim.Topology.Run")
	}
	log.Infof("congsim: ran %d/%d ticks", ran, a.iterations)

	stats := topo.Statistics()
	report.Print(os.Stdout, stats)

	if a.csvFile != "" {
		f, err := os.Create(a.csvFile)
		if err != nil {
			log.WithError(errors.Wrap(err, "os.Create")).Warn("congsim: cannot write CSV statistics")
			return nil
		}
		defer f.Close()
		if err := csvstats.Write(f, stats); err != nil {
			log.WithError(errors.Wrap(err, "csvstats.Write")).Warn("congsim: cannot write CSV statistics")
		}
	}

	return nil
}
