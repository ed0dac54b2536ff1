package main

import (
	"log"

	"github.com/shirou/gopsutil/v3/cpu"
)

// cpuCores sums physical cores across all sockets, 0 when unknown
func cpuCores() int {
	info, err := cpu.Info()
	if err != nil {
		if DebugMode {
			log.Printf("DEBUG: Failed to read CPU info: %v", err)
		}
		return 0
	}
	cores := 0
	for _, cpuInfo := range info {
		cores += int(cpuInfo.Cores)
	}
	return cores
}
