// Package device provides the target device catalog: part identifiers,
// families, and maximum clock frequencies used to derive fallback
// timing constraints.
package device

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Device describes one target device.
type Device struct {
	// Name is the catalog key used on the command line.
	Name string `yaml:"name"`
	// Part is the full part identifier passed to synth_design.
	Part string `yaml:"part"`
	// Family tags the device family for the log parser.
	Family string `yaml:"family"`
	// FmaxMHz is the maximum clock frequency in MHz.
	FmaxMHz float64 `yaml:"fmax_mhz"`
	// Constraints optionally points at a device-default constraints
	// file. Empty for devices without one.
	Constraints string `yaml:"constraints"`
}

// ClockPeriodNs derives the target clock period in nanoseconds from
// the device's maximum frequency. The figure is kept at full float64
// precision; rounding here would silently shift timing closure.
func (d Device) ClockPeriodNs() float64 {
	return 1000.0 / d.FmaxMHz
}

// builtin is the compiled-in device catalog. An overlay file can add
// to or replace these entries.
var builtin = []Device{
	{Name: "artix7-200", Part: "xc7a200tfbg484-2", Family: "artix7", FmaxMHz: 650},
	{Name: "kintex7-325", Part: "xc7k325tffg900-2", Family: "kintex7", FmaxMHz: 710},
	{Name: "zynqmp-3eg", Part: "xczu3eg-sbva484-1-e", Family: "zynquplus", FmaxMHz: 650},
	{Name: "virtexup-9p", Part: "xcvu9p-flga2104-2-i", Family: "virtexuplus", FmaxMHz: 775},
}

// Catalog maps device names to devices.
type Catalog struct {
	devices map[string]Device
}

// NewCatalog returns the built-in catalog.
func NewCatalog() *Catalog {
	c := &Catalog{devices: make(map[string]Device, len(builtin))}
	for _, d := range builtin {
		c.devices[d.Name] = d
	}
	return c
}

// LoadCatalog returns the built-in catalog overlaid with entries from a
// YAML file. A missing overlay path is not an error; a malformed one is.
func LoadCatalog(overlayPath string) (*Catalog, error) {
	c := NewCatalog()
	if overlayPath == "" {
		return c, nil
	}
	data, err := os.ReadFile(overlayPath)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read device overlay: %w", err)
	}

	var overlay []Device
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return nil, fmt.Errorf("failed to parse device overlay: %w", err)
	}
	for _, d := range overlay {
		if d.Name == "" || d.Part == "" || d.FmaxMHz <= 0 {
			return nil, fmt.Errorf("device overlay entry %+v needs name, part and a positive fmax_mhz", d)
		}
		c.devices[d.Name] = d
	}
	return c, nil
}

// Lookup returns the device registered under name.
func (c *Catalog) Lookup(name string) (Device, error) {
	d, ok := c.devices[name]
	if !ok {
		return Device{}, fmt.Errorf("unknown device %q (see 'synthflow devices')", name)
	}
	return d, nil
}

// All returns every catalog entry sorted by name.
func (c *Catalog) All() []Device {
	out := make([]Device, 0, len(c.devices))
	for _, d := range c.devices {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
