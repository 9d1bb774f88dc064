package audio

import "strings"

const (
	logTag      = "dshow @"
	audioMarker = " (audio)"
	aliasMarker = "Alternative name"
	nameStart   = ` "`
	nameEnd     = `" `
)

// ParseDevices extracts audio input devices from the diagnostic output of
// `ffmpeg -list_devices true -f dshow -i dummy`, in listing order.
//
// A line is a device line when it carries the dshow log tag and the
// " (audio)" marker and is not an alias. Device lines without a quoted name
// are skipped; a line whose closing quote comes before its opening quote
// fails the whole listing.
func ParseDevices(output string) ([]AudioDevice, error) {
	var devices []AudioDevice
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")

		name, ok, err := parseDeviceLine(line)
		if err != nil {
			return nil, err
		}
		if ok {
			devices = append(devices, AudioDevice{Name: name})
		}
	}
	return devices, nil
}

func parseDeviceLine(line string) (string, bool, error) {
	if !strings.Contains(line, logTag) || !strings.Contains(line, audioMarker) {
		return "", false, nil
	}
	if strings.Contains(line, aliasMarker) {
		return "", false, nil
	}

	start := strings.Index(line, nameStart)
	end := strings.Index(line, nameEnd)
	if start < 0 || end < 0 {
		return "", false, nil
	}

	start += len(nameStart)
	if start > end {
		return "", false, &ParseError{Line: line}
	}

	return line[start:end], true, nil
}
