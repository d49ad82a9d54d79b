package congsim

import (
	"strings"
	"testing"
)

func directTestConfig(dataBytes int) Config {
	return Config{
		RouterCount:      2,
		RouterBufferSize: 6 * MSS,
		LinkConfig:       LinkConfig{TxDelay: 0.01, PropDelay: 0.01},
		InitialRWND:      64 * 1024,
		TotalDataBytes:   dataBytes,
	}
}

func TestNewDirectTopologyTransfersAllData(t *testing.T) {
	topo, err := NewDirectTopology(directTestConfig(64*1024), NewReno)
	if err != nil {
		t.Fatal(err)
	}

	ran, err := topo.Run(100000)
	if err != nil {
		t.Fatal(err)
	}
	if ran >= 100000 {
		t.Fatal("transfer did not complete within the iteration budget")
	}

	stats := topo.Statistics()
	if len(stats.Flows) != 1 {
		t.Fatalf("expected one flow, got %d", len(stats.Flows))
	}
	if got, want := stats.Flows[0].BytesDelivered, 64*1024; got != want {
		t.Fatalf("got %d bytes delivered, want %d", got, want)
	}
}

func TestNewDirectTopologyRejectsZeroRouters(t *testing.T) {
	cfg := directTestConfig(1024)
	cfg.RouterCount = 0
	if _, err := NewDirectTopology(cfg, NewReno); err == nil {
		t.Fatal("expected an error for a zero-router topology")
	}
}

func TestNewCloudTopologyRunsCompetingFlows(t *testing.T) {
	cfg := directTestConfig(32 * 1024)
	cfg.RouterBufferSize = 3 * MSS // a tight shared buffer induces competition
	topo, err := NewCloudTopology(cfg, []Algorithm{Tahoe, NewReno})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := topo.Run(200000); err != nil {
		t.Fatal(err)
	}

	stats := topo.Statistics()
	if len(stats.Flows) != 2 {
		t.Fatalf("expected two flows, got %d", len(stats.Flows))
	}
	for _, f := range stats.Flows {
		if got, want := f.BytesDelivered, 32*1024; got != want {
			t.Fatalf("flow %s: got %d bytes delivered, want %d", f.Name, got, want)
		}
	}
}

func TestNewCloudTopologyRejectsEmptyAlgorithmList(t *testing.T) {
	if _, err := NewCloudTopology(directTestConfig(1024), nil); err == nil {
		t.Fatal("expected an error for an empty algorithm list")
	}
}

func TestTopologyEmitsPerTickBannerUnderReportingSimulator(t *testing.T) {
	var ticksSeen int
	logger := &mockLogger{
		MockDebugf: func(format string, v ...any) {
			ticksSeen++
		},
	}

	cfg := directTestConfig(4 * 1024)
	cfg.Logger = logger
	cfg.Reporting = ReportingSimulator

	topo, err := NewDirectTopology(cfg, NewReno)
	if err != nil {
		t.Fatal(err)
	}
	ran, err := topo.Run(100000)
	if err != nil {
		t.Fatal(err)
	}
	if ticksSeen != ran {
		t.Fatalf("got %d per-tick banners, want one per tick (%d)", ticksSeen, ran)
	}
}

func TestTopologyLoggingIsRoutedThroughReportingFlags(t *testing.T) {
	var sawRouterLog, sawOtherLog bool
	logger := &mockLogger{
		MockDebugf: func(format string, v ...any) {
			if strings.HasPrefix(format, "congsim: router ") {
				sawRouterLog = true
			} else {
				sawOtherLog = true
			}
		},
	}

	cfg := directTestConfig(16 * 1024)
	cfg.RouterBufferSize = 2 * MSS
	cfg.Logger = logger
	cfg.Reporting = ReportingRouters // senders/links logging must stay silent

	topo, err := NewDirectTopology(cfg, NewReno)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := topo.Run(50000); err != nil {
		t.Fatal(err)
	}
	if !sawRouterLog {
		t.Fatal("expected at least one router debug log given a tight buffer and ReportingRouters")
	}
	if sawOtherLog {
		t.Fatal("expected only router debug logs under ReportingRouters")
	}
}
