package archiver

import (
	"log"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// Full guild exports can be tens of gigabytes with media enabled.
const lowDiskWarnBytes = 5 << 30

// preflight logs where the run is about to execute and warns when the
// backup volume looks too small. It never blocks the run.
func (a *Archiver) preflight() {
	if info, err := host.Info(); err == nil {
		log.Printf("Host: %s (%s %s)", info.Hostname, info.Platform, info.PlatformVersion)
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		log.Printf("Memory: %.1f GB available of %.1f GB", float64(vm.Available)/1e9, float64(vm.Total)/1e9)
	}
	usage, err := disk.Usage(a.root.Path())
	if err != nil {
		log.Printf("Warning: could not check free disk space: %v", err)
		return
	}
	log.Printf("Disk: %.1f GB free on backup volume", float64(usage.Free)/1e9)
	if usage.Free < lowDiskWarnBytes && a.cfg.Archive.MediaEnabled {
		log.Printf("Warning: less than %d GB free — media downloads may fill the volume", lowDiskWarnBytes>>30)
	}
}
