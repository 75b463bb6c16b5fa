/*
DESCRIPTION
  diagnostics.go logs a per-stage resource snapshot (memory and CPU use)
  alongside the session's progress reporting, grounded on the pack's own use
  of gopsutil for host diagnostics (SentryShot/sentryshot).

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package session

import (
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// logDiagnostics emits a debug-level log line with the host's current
// memory and CPU usage, tagged with the pipeline stage it was taken at. A
// read failure is itself just logged; diagnostics are never fatal.
func (s *Session) logDiagnostics(stage string) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		s.log.Debug("could not read memory stats", "stage", stage, "error", err.Error())
		return
	}

	pct, err := cpu.Percent(50*time.Millisecond, false)
	if err != nil || len(pct) == 0 {
		s.log.Debug("memory stats", "stage", stage, "memUsedPercent", vm.UsedPercent)
		return
	}

	s.log.Debug("resource snapshot", "stage", stage, "memUsedPercent", vm.UsedPercent, "cpuPercent", pct[0])
}
