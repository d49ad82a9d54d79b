package main

import (
	"flag"
	"testing"

	"github.com/bassosimone/congsim"
	"github.com/stretchr/testify/require"
)

func TestParseArgsDefaults(t *testing.T) {
	a, err := parseArgs(flag.NewFlagSet("test", flag.ContinueOnError), nil)
	require.NoError(t, err)
	require.Equal(t, "direct", a.kind)
	require.Equal(t, []string{"newreno"}, a.algorithmList())
	require.Equal(t, 1, a.routers)
}

func TestParseArgsAlgorithmList(t *testing.T) {
	a, err := parseArgs(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-algorithms", "tahoe, reno , newreno"})
	require.NoError(t, err)
	require.Equal(t, []string{"tahoe", "reno", "newreno"}, a.algorithmList())
}

func TestParseArgsRejectsEmptyAlgorithmList(t *testing.T) {
	_, err := parseArgs(flag.NewFlagSet("test", flag.ContinueOnError), []string{"-algorithms", " , ,"})
	require.Error(t, err)
}

func TestParseReporting(t *testing.T) {
	flags := parseReporting("links,routers")
	require.True(t, flags.Has(congsim.ReportingLinks))
	require.True(t, flags.Has(congsim.ReportingRouters))
	require.False(t, flags.Has(congsim.ReportingSenders))
}
