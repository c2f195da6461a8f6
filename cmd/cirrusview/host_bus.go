// host_bus.go - Host address space with page-indexed memory windows

/*
 ██▓ ███▄    █ ▄▄▄█████▓ █    ██  ██▓▄▄▄█████▓ ██▓ ▒█████   ███▄    █    ▓█████  ███▄    █   ▄████  ██▓ ███▄    █ ▓█████
▓██▒ ██ ▀█   █ ▓  ██▒ ▓▒ ██  ▓██▒▓██▒▓  ██▒ ▓▒▓██▒▒██▒  ██▒ ██ ▀█   █    ▓█   ▀  ██ ▀█   █  ██▒ ▀█▒▓██▒ ██ ▀█   █ ▓█   ▀
▒██▒▓██  ▀█ ██▒▒ ▓██░ ▒░▓██  ▒██░▒██▒▒ ▓██░ ▒░▒██▒▒██░  ██▒▓██  ▀█ ██▒   ▒███   ▓██  ▀█ ██▒▒██░▄▄▄░▒██▒▓██  ▀█ ██▒▒███
░██░▓██▒  ▐▌██▒░ ▓██▓ ░ ▓▓█  ░██░░██░░ ▓██▓ ░ ░██░▒██   ██░▓██▒  ▐▌██▒   ▒▓█  ▄ ▓██▒  ▐▌██▒░▓█  ██▓░██░▓██▒  ▐▌██▒▒▓█  ▄
░██░▒██░   ▓██░  ▒██▒ ░ ▒▒█████▓ ░██░  ▒██▒ ░ ░██░░ ████▓▒░▒██░   ▓██░   ░▒████▒▒██░   ▓██░░▒▓███▀▒░██░▒██░   ▓██░░▒████▒
░▓  ░ ▒░   ▒ ▒   ▒ ░░   ░▒▓▒ ▒ ▒ ░▓    ▒ ░░   ░▓  ░ ▒░▒░▒░ ░ ▒░   ▒ ▒    ░░ ▒░ ░░ ▒░   ▒ ▒  ░▒   ▒ ░▓  ░ ▒░   ▒ ▒ ░░ ▒░ ░
 ▒ ░░ ░░   ░ ▒░    ░    ░░▒░ ░ ░  ▒ ░    ░     ▒ ░  ░ ▒ ▒░ ░ ░░   ░ ▒░    ░ ░  ░░ ░░   ░ ▒░  ░   ░  ▒ ░░ ░░   ░ ▒░ ░ ░  ░
 ▒ ░   ░   ░ ░   ░       ░░░ ░ ░  ▒ ░  ░       ▒ ░░ ░ ░ ▒     ░   ░ ░       ░      ░   ░ ░ ░ ░   ░  ▒ ░   ░   ░ ░    ░
 ░           ░             ░      ░            ░      ░ ░           ░       ░  ░         ░       ░  ░           ░    ░  ░

(c) 2024 - 2026 Zayn Otley
https://github.com/IntuitionAmiga/IntuitionEngine

License: GPLv3 or later
*/

/*
The host bus stands in for the ISA/VLB/PCI memory space the card sits on.
Regions are indexed by 64KB page so a 4MB linear window costs 64 map entries.
Lookups take the read lock only long enough to find the region; the callback
runs unlocked so a card access that moves its own windows can re-enter Remap.
*/

package main

import (
	"sort"
	"sync"
)

const (
	BUS_PAGE_SIZE  = 0x10000
	BUS_PAGE_MASK  = 0xFFFF0000
	BUS_OPEN_VALUE = 0xFFFFFFFF
)

// ioRegion is one decoded range. size is the access width in bytes.
type ioRegion struct {
	name    string
	start   uint32
	end     uint32 // inclusive
	onRead  func(addr uint32, size int) uint32
	onWrite func(addr uint32, size int, value uint32)
}

func (r *ioRegion) contains(addr uint32) bool {
	return addr >= r.start && addr <= r.end
}

type hostBus struct {
	mu      sync.RWMutex
	mapping map[uint32][]*ioRegion
	regions []*ioRegion
}

func newHostBus() *hostBus {
	return &hostBus{mapping: make(map[uint32][]*ioRegion)}
}

// MapIO registers a region covering start..end inclusive.
func (bus *hostBus) MapIO(name string, start, end uint32,
	onRead func(addr uint32, size int) uint32,
	onWrite func(addr uint32, size int, value uint32)) {
	if end < start {
		return
	}
	region := &ioRegion{name: name, start: start, end: end, onRead: onRead, onWrite: onWrite}

	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.regions = append(bus.regions, region)
	for page := uint64(start & BUS_PAGE_MASK); page <= uint64(end&BUS_PAGE_MASK); page += BUS_PAGE_SIZE {
		p := uint32(page)
		bus.mapping[p] = append(bus.mapping[p], region)
	}
}

// Unmap removes every region registered under name.
func (bus *hostBus) Unmap(name string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	kept := bus.regions[:0]
	for _, r := range bus.regions {
		if r.name != name {
			kept = append(kept, r)
		}
	}
	bus.regions = kept
	bus.mapping = make(map[uint32][]*ioRegion)
	for _, r := range bus.regions {
		for page := uint64(r.start & BUS_PAGE_MASK); page <= uint64(r.end&BUS_PAGE_MASK); page += BUS_PAGE_SIZE {
			p := uint32(page)
			bus.mapping[p] = append(bus.mapping[p], r)
		}
	}
}

func (bus *hostBus) lookup(addr uint32) *ioRegion {
	bus.mu.RLock()
	defer bus.mu.RUnlock()
	for _, r := range bus.mapping[addr&BUS_PAGE_MASK] {
		if r.contains(addr) {
			return r
		}
	}
	return nil
}

// Regions lists the decoded ranges in address order.
func (bus *hostBus) Regions() []ioRegion {
	bus.mu.RLock()
	out := make([]ioRegion, 0, len(bus.regions))
	for _, r := range bus.regions {
		out = append(out, *r)
	}
	bus.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

func (bus *hostBus) read(addr uint32, size int) uint32 {
	r := bus.lookup(addr)
	if r == nil || r.onRead == nil {
		return BUS_OPEN_VALUE >> (32 - 8*size)
	}
	return r.onRead(addr, size)
}

func (bus *hostBus) write(addr uint32, size int, value uint32) {
	r := bus.lookup(addr)
	if r == nil || r.onWrite == nil {
		return
	}
	r.onWrite(addr, size, value)
}

func (bus *hostBus) Read8(addr uint32) uint8     { return uint8(bus.read(addr, 1)) }
func (bus *hostBus) Read16(addr uint32) uint16   { return uint16(bus.read(addr, 2)) }
func (bus *hostBus) Read32(addr uint32) uint32   { return bus.read(addr, 4) }
func (bus *hostBus) Write8(addr uint32, v uint8) { bus.write(addr, 1, uint32(v)) }

func (bus *hostBus) Write16(addr uint32, v uint16) { bus.write(addr, 2, uint32(v)) }
func (bus *hostBus) Write32(addr uint32, v uint32) { bus.write(addr, 4, v) }
