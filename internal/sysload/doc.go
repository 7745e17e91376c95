// Package sysload reads the host's one-minute load average so the scheduler
// can back off when the machine is busy with foreground work.
package sysload
