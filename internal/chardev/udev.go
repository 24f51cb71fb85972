package chardev

import (
	udev "github.com/jochenvg/go-udev"
)

// DiscoverSerialDevices lists candidate serial character devices (USB
// CDC-ACM radios and similar) currently present on the system, so a
// caller can offer them in a device picker instead of requiring a
// hand-typed /dev path.
func DiscoverSerialDevices() ([]string, error) {
	u := udev.Udev{}
	enum := u.NewEnumerate()
	if err := enum.AddMatchSubsystem("tty"); err != nil {
		return nil, err
	}

	devices, err := enum.Devices()
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, d := range devices {
		if d.Devnode() != "" {
			paths = append(paths, d.Devnode())
		}
	}
	return paths, nil
}
