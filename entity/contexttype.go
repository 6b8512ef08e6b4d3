package entity

import (
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/clock"
	"github.com/tsinghua-fib-lab/agentsociety-gridtraffic/utils/config"
)

type ITaskContext interface {
	Clock() *clock.Clock
	RoadGraph() IRoadGraph
	SignalManager() ISignalManager
	VehicleManager() IVehicleManager
	RuntimeConfig() *config.RuntimeConfig
}
