package main

import (
	"fmt"
	"os"

	"github.com/go-kit/log"
	"gopkg.in/alecthomas/kingpin.v2"

	glean "github.com/wlach/glean/core"
	"github.com/wlach/glean/metricdata"
	"github.com/wlach/glean/metrics"
	"github.com/wlach/glean/pingmaker"
)

var (
	app        = kingpin.New("glean-hostsim", "Drives a core instance from the command line, for manual verification without real host bindings.")
	configFile = app.Flag("config", "YAML settings file (overlaid with GLEAN_* environment variables).").Short('c').String()

	recordBoolean       = app.Command("record-boolean", "Record a boolean metric value.")
	recordBooleanName   = recordBoolean.Arg("name", "metric identifier, e.g. ui.enabled").Required().String()
	recordBooleanValue  = recordBoolean.Arg("value", "true or false").Required().Bool()
	recordBooleanStores = recordBoolean.Flag("store", "ping store to record into, repeatable.").Default("metrics").Strings()

	recordCounter       = app.Command("record-counter", "Increment a counter metric.")
	recordCounterName   = recordCounter.Arg("name", "metric identifier").Required().String()
	recordCounterAmount = recordCounter.Arg("amount", "amount to add").Default("1").Int()
	recordCounterStores = recordCounter.Flag("store", "ping store to record into, repeatable.").Default("metrics").Strings()

	recordString       = app.Command("record-string", "Record a string metric value.")
	recordStringName   = recordString.Arg("name", "metric identifier").Required().String()
	recordStringValue  = recordString.Arg("value", "string value").Required().String()
	recordStringStores = recordString.Flag("store", "ping store to record into, repeatable.").Default("metrics").Strings()

	sendPing     = app.Command("send-ping", "Collect and queue a ping by name.")
	sendPingName = sendPing.Arg("name", "ping name").Required().String()

	setUploadEnabled      = app.Command("set-upload-enabled", "Flip the upload-enabled flag.")
	setUploadEnabledValue = setUploadEnabled.Arg("enabled", "true or false").Required().Bool()

	setExperimentActive       = app.Command("set-experiment-active", "Annotate an experiment as active.")
	setExperimentActiveID     = setExperimentActive.Arg("experiment-id", "experiment identifier").Required().String()
	setExperimentActiveBranch = setExperimentActive.Arg("branch", "enrolled branch").Required().String()

	setExperimentInactive   = app.Command("set-experiment-inactive", "Remove an experiment annotation.")
	setExperimentInactiveID = setExperimentInactive.Arg("experiment-id", "experiment identifier").Required().String()
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	command, err := app.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	settings, err := LoadSettings(*configFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "load settings:", err)
		return 1
	}

	logger := log.NewLogfmtLogger(os.Stderr)
	g, err := glean.New(glean.Config{
		DataPath:          settings.DataPath,
		ApplicationID:     settings.ApplicationID,
		UploadEnabled:     settings.UploadEnabled,
		TelemetrySDKBuild: settings.TelemetrySDKBuild,
		MaxEventsPerPing:  settings.MaxEventsPerPing,
		Logger:            logger,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "initialize glean:", err)
		return 1
	}
	registerStandardPings(g)
	g.OnReadyToSendPings()
	defer g.Shutdown()

	if err := dispatch(g, command); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

// registerStandardPings registers the ping types a real host binding
// generates from pings.yaml; glean-hostsim has no such generated code, so
// it registers the usual "metrics" and "events" stores itself.
func registerStandardPings(g *glean.Glean) {
	g.RegisterPingType(pingmaker.PingType{Name: "metrics", IncludeClientID: true})
	g.RegisterPingType(pingmaker.PingType{Name: "events", IncludeClientID: true})
}

func dispatch(g *glean.Glean, command string) error {
	switch command {
	case recordBoolean.FullCommand():
		m := metrics.NewBoolean(commonData(*recordBooleanName, *recordBooleanStores), g.Engine(), g.Dispatcher(), g.Clock())
		m.Set(*recordBooleanValue)
		return nil

	case recordCounter.FullCommand():
		m := metrics.NewCounter(commonData(*recordCounterName, *recordCounterStores), g.Engine(), g.Dispatcher(), g.Clock())
		m.Add(int32(*recordCounterAmount))
		return nil

	case recordString.FullCommand():
		m := metrics.NewString(commonData(*recordStringName, *recordStringStores), g.Engine(), g.Dispatcher(), g.Clock())
		m.Set(*recordStringValue)
		return nil

	case sendPing.FullCommand():
		wrote, err := g.SendPingByName(*sendPingName)
		if err != nil {
			return fmt.Errorf("send-ping: %w", err)
		}
		fmt.Printf("ping %q queued=%v\n", *sendPingName, wrote)
		return nil

	case setUploadEnabled.FullCommand():
		g.SetUploadEnabled(*setUploadEnabledValue)
		return nil

	case setExperimentActive.FullCommand():
		g.SetExperimentActive(*setExperimentActiveID, *setExperimentActiveBranch, nil)
		return nil

	case setExperimentInactive.FullCommand():
		g.SetExperimentInactive(*setExperimentInactiveID)
		return nil
	}
	return fmt.Errorf("unhandled command %q", command)
}

func commonData(name string, stores []string) metricdata.CommonMetricData {
	return metricdata.New(name, "", stores, metricdata.Ping, false)
}
