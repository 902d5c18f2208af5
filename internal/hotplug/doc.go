// Package hotplug watches udev netlink events for sound devices and invokes a
// handler once a burst of events settles. `recroute watch` uses it to re-run
// reconfiguration when a USB interface is plugged back in.
package hotplug
