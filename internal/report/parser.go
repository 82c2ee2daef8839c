package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var (
	// Slack (MET) :             0.123ns  (required time - arrival time)
	// Slack (VIOLATED) :       -0.045ns  (required time - arrival time)
	slackRe = regexp.MustCompile(`Slack\s+\((MET|VIOLATED)\)\s*:\s*(-?\d+(?:\.\d+)?)ns`)

	// Utilization table rows. 7-series logs say "Slice LUTs"/"Slice
	// Registers"; UltraScale logs say "CLB LUTs"/"CLB Registers".
	lutRe      = regexp.MustCompile(`\|\s*(?:Slice|CLB)\s+LUTs\*?\s*\|\s*(\d+)`)
	registerRe = regexp.MustCompile(`\|\s*(?:Slice|CLB)\s+Registers\s*\|\s*(\d+)`)
	bramRe     = regexp.MustCompile(`\|\s*Block\s+RAM\s+Tile\s*\|\s*(\d+)`)
	dspRe      = regexp.MustCompile(`\|\s*DSPs?\s*\|\s*(\d+)`)
)

// ParseLogFile parses the tool log at path for the given device family.
func ParseLogFile(path, family string) (*FlowReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open tool log %s: %w", path, err)
	}
	defer f.Close()
	return ParseLog(f, family)
}

// ParseLog extracts timing, utilization, and error lines from a tool
// log. The last timing report wins (the script reports timing after
// every pipeline stage; the final one reflects the finished design).
func ParseLog(r io.Reader, family string) (*FlowReport, error) {
	rep := &FlowReport{Family: family}

	scanner := bufio.NewScanner(r)
	// Tool logs can carry very long lines (full path lists).
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "ERROR:") {
			rep.Errors = append(rep.Errors, strings.TrimSpace(line))
			continue
		}

		if m := slackRe.FindStringSubmatch(line); m != nil {
			slack, err := strconv.ParseFloat(m[2], 64)
			if err == nil {
				rep.hasTiming = true
				rep.TimingMet = m[1] == "MET"
				rep.SlackNs = slack
			}
			continue
		}

		if m := lutRe.FindStringSubmatch(line); m != nil {
			rep.LUTs, _ = strconv.Atoi(m[1])
			rep.hasUtilization = true
			continue
		}
		if m := registerRe.FindStringSubmatch(line); m != nil {
			rep.Registers, _ = strconv.Atoi(m[1])
			continue
		}
		if m := bramRe.FindStringSubmatch(line); m != nil {
			rep.BlockRAMs, _ = strconv.Atoi(m[1])
			continue
		}
		if m := dspRe.FindStringSubmatch(line); m != nil {
			rep.DSPs, _ = strconv.Atoi(m[1])
			continue
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tool log: %w", err)
	}
	return rep, nil
}
