package relay

import (
	"github.com/globalbuddy/buddy/pkg/convlog"
	"github.com/globalbuddy/buddy/pkg/eventstream"
	"github.com/globalbuddy/buddy/pkg/llm/provider"
	"github.com/globalbuddy/buddy/pkg/scenario"
	"github.com/globalbuddy/buddy/pkg/storage"
)

// Config is the relay configuration.
type Config struct {
	// Catalog supplies system prompts. Defaults to scenario.Default().
	Catalog *scenario.Catalog

	// Provider generates replies. Required.
	Provider provider.Provider

	// Model overrides the provider's default model.
	Model string

	// Temperature is passed to the provider when set.
	Temperature *float64

	// ConvLog, Driver and Publisher are the optional sinks finished
	// turns are recorded in.
	ConvLog   *convlog.Log
	Driver    storage.Driver
	Publisher eventstream.Publisher

	// NumWorkers and QueueSize size the recording worker pool.
	NumWorkers uint
	QueueSize  uint
}
