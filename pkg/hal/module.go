package hal

// BusCloser is a Bus that holds an operating system resource, e.g. an opened device node or serial port
type BusCloser interface {
	Bus
	Close() error
}
